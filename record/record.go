// Package record contains the struct passed between the parsers, filter, and
// sink modules. One Record is one parsed logcat line.
package record

import (
	"encoding/json"
	"fmt"
)

// Level is a logcat severity. Levels are ordered; a higher value means a more
// severe message.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
	Fatal
)

// levelLetters holds the single-letter forms in severity order.
const levelLetters = "VDIWEF"

// LevelFromLetter maps a logcat severity letter (V, D, I, W, E, F) to its
// Level. The second return value is false for anything else.
func LevelFromLetter(s string) (Level, bool) {
	if len(s) != 1 {
		return 0, false
	}
	for i := 0; i < len(levelLetters); i++ {
		if levelLetters[i] == s[0] {
			return Level(i), true
		}
	}
	return 0, false
}

// String returns the single-letter form used on the wire.
func (l Level) String() string {
	if l < Verbose || l > Fatal {
		return "?"
	}
	return string(levelLetters[l])
}

// MarshalJSON encodes the level as its letter, matching the wire form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a severity letter back into a Level.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lvl, ok := LevelFromLetter(s)
	if !ok {
		return fmt.Errorf("unknown log level %q", s)
	}
	*l = lvl
	return nil
}

// Record is a single normalized log line.
//
// PID and TID are pointers because the "time" wire format carries neither; a
// nil pointer serializes as JSON null and must never be confused with pid 0.
// Records are built by the parsers package and are read-only afterwards.
type Record struct {
	// TsRaw is the timestamp text exactly as it appeared in the source line.
	TsRaw string `json:"ts_raw"`
	// TsISO is the normalized absolute timestamp in ISO-8601.
	TsISO string `json:"ts_iso"`
	PID   *int   `json:"pid"`
	TID   *int   `json:"tid"`
	Level Level  `json:"level"`
	Tag   string `json:"tag"`
	// Msg is the untouched remainder of the line after the format header.
	Msg string `json:"msg"`
}

// FieldNames is the fixed column order used by tabular output. It mirrors the
// JSON field order of Record.
var FieldNames = []string{"ts_raw", "ts_iso", "pid", "tid", "level", "tag", "msg"}
