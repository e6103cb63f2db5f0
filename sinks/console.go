package sinks

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// severity colors; only the level letter is styled so the surrounding text
// stays byte-identical with and without color
var levelStyles = map[record.Level]lipgloss.Style{
	record.Verbose: lipgloss.NewStyle().Faint(true),
	record.Debug:   lipgloss.NewStyle(),
	record.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),  // green
	record.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),  // yellow
	record.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),  // red
	record.Fatal:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// Console renders one human-readable line per record:
//
//	<time-of-day> <pid-or-dash>/<tid-or-dash> <level> <tag>: <msg>
type Console struct {
	w       io.Writer
	noColor bool
}

// NewConsole returns a console sink writing to stdout.
func NewConsole(noColor bool) *Console {
	return &Console{w: os.Stdout, noColor: noColor}
}

// NewConsoleWriter returns a console sink writing to w. Used by tests.
func NewConsoleWriter(w io.Writer, noColor bool) *Console {
	return &Console{w: w, noColor: noColor}
}

func (c *Console) Write(rec *record.Record) error {
	tod := rec.TsISO
	if i := strings.IndexByte(tod, 'T'); i >= 0 {
		tod = tod[i+1:]
	}

	level := rec.Level.String()
	if !c.noColor {
		if style, ok := levelStyles[rec.Level]; ok {
			level = style.Render(level)
		}
	}

	_, err := fmt.Fprintf(c.w, "%s %s/%s %s %s: %s\n",
		tod, orDash(rec.PID), orDash(rec.TID), level, rec.Tag, rec.Msg)
	return err
}

// Close is a no-op; the console sink does not own its writer.
func (c *Console) Close() error {
	return nil
}

func orDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
