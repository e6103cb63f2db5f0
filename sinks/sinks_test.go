package sinks

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

func intPtr(n int) *int { return &n }

func sampleRecord() *record.Record {
	return &record.Record{
		TsRaw: "01-01 12:00:00.000",
		TsISO: "2023-01-01T12:00:00",
		PID:   intPtr(1234),
		TID:   intPtr(1235),
		Level: record.Info,
		Tag:   "MyTag",
		Msg:   "hello world",
	}
}

func timeFormatRecord() *record.Record {
	return &record.Record{
		TsRaw: "01-01 12:00:01.000",
		TsISO: "2023-01-01T12:00:01",
		Level: record.Warning,
		Tag:   "Net",
		Msg:   "timeout, retrying",
	}
}

// --- console ---

func TestConsoleRendering(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true)

	require.NoError(t, c.Write(sampleRecord()))
	require.NoError(t, c.Write(timeFormatRecord()))
	require.NoError(t, c.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "12:00:00 1234/1235 I MyTag: hello world", lines[0])
	// absent pid/tid render as dashes
	assert.Equal(t, "12:00:01 -/- W Net: timeout, retrying", lines[1])
}

func TestConsoleColorKeepsText(t *testing.T) {
	var colored, plain bytes.Buffer
	require.NoError(t, NewConsoleWriter(&colored, false).Write(sampleRecord()))
	require.NoError(t, NewConsoleWriter(&plain, true).Write(sampleRecord()))

	// styling may add escape sequences but must not change the text itself
	for _, part := range []string{"12:00:00", "1234/1235", "I", "MyTag:", "hello world"} {
		assert.Contains(t, colored.String(), part)
	}
	assert.Equal(t, "12:00:00 1234/1235 I MyTag: hello world\n", plain.String())
}

func TestConsoleCloseIdempotent(t *testing.T) {
	c := NewConsoleWriter(&bytes.Buffer{}, true)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

// --- json lines ---

func TestJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	j, err := NewJSONLines(path, 0)
	require.NoError(t, err)

	require.NoError(t, j.Write(sampleRecord()))
	require.NoError(t, j.Write(timeFormatRecord()))
	require.NoError(t, j.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)

	// each line independently parses back to the original field values
	var first record.Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, *sampleRecord(), first)

	var second record.Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, *timeFormatRecord(), second)
	assert.Nil(t, second.PID)
}

func TestJSONLinesIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	j, err := NewJSONLines(path, 2)
	require.NoError(t, err)
	require.NoError(t, j.Write(sampleRecord()))
	require.NoError(t, j.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	// pretty form spans multiple lines but still decodes to the same record
	assert.True(t, strings.Count(string(content), "\n") > 1)
	var back record.Record
	require.NoError(t, json.Unmarshal(content, &back))
	assert.Equal(t, *sampleRecord(), back)
}

func TestJSONLinesCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	j, err := NewJSONLines(path, 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

// --- csv ---

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	c, err := NewCSV(path)
	require.NoError(t, err)

	require.NoError(t, c.Write(sampleRecord()))
	require.NoError(t, c.Write(timeFormatRecord()))
	require.NoError(t, c.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, record.FieldNames, rows[0])
	assert.Equal(t, []string{
		"01-01 12:00:00.000", "2023-01-01T12:00:00", "1234", "1235", "I", "MyTag", "hello world",
	}, rows[1])
	// mixed-format run: absent pid/tid become empty cells under the same
	// fixed header, never shifted columns
	assert.Equal(t, []string{
		"01-01 12:00:01.000", "2023-01-01T12:00:01", "", "", "W", "Net", "timeout, retrying",
	}, rows[2])
}

func TestCSVCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	c, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// no writes means no header either
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

// --- fan-out ---

type scriptedSink struct {
	name     string
	writeErr error
	closeErr error
	writes   int
	closes   int
	order    *[]string
}

func (s *scriptedSink) Write(rec *record.Record) error {
	s.writes++
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	return s.writeErr
}

func (s *scriptedSink) Close() error {
	s.closes++
	return s.closeErr
}

func TestFanoutDeliversInRegistrationOrder(t *testing.T) {
	var order []string
	first := &scriptedSink{name: "first", order: &order}
	second := &scriptedSink{name: "second", order: &order}

	fanout := &Fanout{}
	fanout.Add(first)
	fanout.Add(second)
	require.Equal(t, 2, fanout.Len())

	fanout.Write(sampleRecord())
	fanout.Write(sampleRecord())

	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestFanoutIsolatesWriteFailures(t *testing.T) {
	broken := &scriptedSink{name: "broken", writeErr: errors.New("disk full")}
	healthy := &scriptedSink{name: "healthy"}

	fanout := &Fanout{}
	fanout.Add(broken)
	fanout.Add(healthy)

	fanout.Write(sampleRecord())
	assert.Equal(t, 1, broken.writes)
	assert.Equal(t, 1, healthy.writes, "failure in one sink must not block the next")
}

func TestFanoutClosesEverySink(t *testing.T) {
	broken := &scriptedSink{name: "broken", closeErr: errors.New("flush failed")}
	healthy := &scriptedSink{name: "healthy"}

	fanout := &Fanout{}
	fanout.Add(broken)
	fanout.Add(healthy)

	err := fanout.Close()
	assert.Error(t, err)
	assert.Equal(t, 1, broken.closes)
	assert.Equal(t, 1, healthy.closes, "close must be attempted on every sink")
}
