package sinks

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// JSONLines appends one self-contained JSON object per record to a file. With
// no indent each object occupies a single line (JSON Lines); a positive
// indent pretty-prints each object across multiple lines instead.
type JSONLines struct {
	f      *os.File
	indent string
	closed bool
}

// NewJSONLines creates (truncating) the output file. indent <= 0 selects the
// compact one-object-per-line form.
func NewJSONLines(path string, indent int) (*JSONLines, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	j := &JSONLines{f: f}
	if indent > 0 {
		j.indent = strings.Repeat(" ", indent)
	}
	return j, nil
}

func (j *JSONLines) Write(rec *record.Record) error {
	var (
		out []byte
		err error
	)
	if j.indent != "" {
		out, err = json.MarshalIndent(rec, "", j.indent)
	} else {
		out, err = json.Marshal(rec)
	}
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = j.f.Write(out)
	return err
}

func (j *JSONLines) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	return j.f.Close()
}
