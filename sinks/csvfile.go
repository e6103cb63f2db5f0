package sinks

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// CSV writes records as rows of a CSV file. The header is written before the
// first data row and is always the full fixed Record field set
// (ts_raw,ts_iso,pid,tid,level,tag,msg), so records from formats without
// pid/tid simply get empty cells and mixed-format runs can never misalign
// columns.
type CSV struct {
	f           *os.File
	w           *csv.Writer
	wroteHeader bool
	closed      bool
}

// NewCSV creates (truncating) the output file.
func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &CSV{f: f, w: csv.NewWriter(f)}, nil
}

func (c *CSV) Write(rec *record.Record) error {
	if !c.wroteHeader {
		if err := c.w.Write(record.FieldNames); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	row := []string{
		rec.TsRaw,
		rec.TsISO,
		orEmpty(rec.PID),
		orEmpty(rec.TID),
		rec.Level.String(),
		rec.Tag,
		rec.Msg,
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

func orEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
