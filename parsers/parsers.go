// Package parsers classifies raw logcat lines and parses them into records.
//
// Three wire formats are recognized, each with its own fixed grammar:
// threadtime (date, time, pid, tid, level, tag, message), time (no pid/tid),
// and epoch (unix seconds.fraction instead of date and time). A line belongs
// to at most one format; anything else is Unknown.
package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Android-RU/Android-Logcat-Parser/lctime"
	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// Format identifies which wire grammar a line follows.
type Format int

const (
	Unknown Format = iota
	Threadtime
	Time
	Epoch
)

var formatNames = map[Format]string{
	Unknown:    "unknown",
	Threadtime: "threadtime",
	Time:       "time",
	Epoch:      "epoch",
}

func (f Format) String() string {
	return formatNames[f]
}

// FormatFromName maps a format name as used on the adb command line
// (threadtime, time, epoch) back to a Format.
func FormatFromName(name string) (Format, bool) {
	for f, n := range formatNames {
		if n == name && f != Unknown {
			return f, true
		}
	}
	return Unknown, false
}

var (
	threadtimeRegex = &ExtRegexp{regexp.MustCompile(
		`^(?P<date>\d\d-\d\d)\s+(?P<time>\d\d:\d\d:\d\d\.\d+)\s+` +
			`(?P<pid>\d+)\s+(?P<tid>\d+)\s+(?P<level>[VDIWEF])\s+(?P<tag>[^:]+):\s+(?P<msg>.*)$`)}
	timeRegex = &ExtRegexp{regexp.MustCompile(
		`^(?P<date>\d\d-\d\d)\s+(?P<time>\d\d:\d\d:\d\d\.\d+)\s+` +
			`(?P<level>[VDIWEF])\s+(?P<tag>[^:]+):\s+(?P<msg>.*)$`)}
	epochRegex = &ExtRegexp{regexp.MustCompile(
		`^(?P<epoch>\d+\.\d+)\s+(?P<pid>\d+)\s+(?P<tid>\d+)\s+` +
			`(?P<level>[VDIWEF])\s+(?P<tag>[^:]+):\s+(?P<msg>.*)$`)}
)

func grammarFor(f Format) *ExtRegexp {
	switch f {
	case Threadtime:
		return threadtimeRegex
	case Time:
		return timeRegex
	case Epoch:
		return epochRegex
	}
	return nil
}

// Detect classifies a single line. Grammars are tried in priority order
// threadtime, time, epoch; the first full match wins. Detect is pure and
// stateless.
func Detect(line string) Format {
	for _, f := range []Format{Threadtime, Time, Epoch} {
		if grammarFor(f).MatchString(line) {
			return f
		}
	}
	return Unknown
}

// Parse applies the grammar for the given format to one line. The second
// return value is false when the line does not fully match; malformed lines
// are expected in live streams and a false return means "skip", not an error.
func Parse(line string, format Format) (*record.Record, bool) {
	re := grammarFor(format)
	if re == nil {
		return nil, false
	}
	_, fields := re.FindStringSubmatchMap(line)
	if fields == nil {
		return nil, false
	}

	rec := &record.Record{
		Tag: strings.TrimSpace(fields["tag"]),
		Msg: fields["msg"],
	}

	level, ok := record.LevelFromLetter(fields["level"])
	if !ok {
		// unreachable given the grammar's level class, but don't build a
		// half-filled record if the grammar ever loosens
		return nil, false
	}
	rec.Level = level

	if format == Epoch {
		rec.TsRaw = fields["epoch"]
		ts, err := lctime.Epoch(fields["epoch"])
		if err != nil {
			logrus.WithFields(logrus.Fields{"line": line, "err": err}).Debug(
				"skipping line with unparseable epoch timestamp")
			return nil, false
		}
		rec.TsISO = lctime.ISO(ts)
	} else {
		rec.TsRaw = fields["date"] + " " + fields["time"]
		ts, err := lctime.Clock(fields["date"], fields["time"])
		if err != nil {
			logrus.WithFields(logrus.Fields{"line": line, "err": err}).Debug(
				"skipping line with unparseable clock timestamp")
			return nil, false
		}
		rec.TsISO = lctime.ISO(ts)
	}

	if format != Time {
		pid, err := strconv.Atoi(fields["pid"])
		if err != nil {
			return nil, false
		}
		tid, err := strconv.Atoi(fields["tid"])
		if err != nil {
			return nil, false
		}
		rec.PID = &pid
		rec.TID = &tid
	}

	return rec, true
}
