// Package lctime resolves logcat timestamp text into absolute times.
//
// The threadtime and time wire formats carry only a month-day and a
// time-of-day, so an absolute timestamp has to borrow a year from the wall
// clock. We use the current calendar year, which means a capture that spans a
// year boundary gets normalized into the wrong year. That is a known
// limitation of the wire formats, not something we try to fix.
package lctime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// DefaultNower returns current time when called with Now() unless overridden
	DefaultNower Nower = &RealNower{}
	// Location defaults to UTC unless overridden
	Location *time.Location = time.UTC
)

type Nower interface {
	Now() time.Time
}

type RealNower struct{}

func (r *RealNower) Now() time.Time {
	return time.Now().UTC()
}

func Now() time.Time {
	return DefaultNower.Now()
}

// Epoch converts an epoch-format timestamp ("seconds.fraction") to a UTC
// time. The fractional part is parsed digit-exact rather than through a
// float64 so sub-second precision survives intact.
func Epoch(raw string) (time.Time, error) {
	secPart, fracPart, _ := strings.Cut(raw, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad epoch seconds %q: %w", raw, err)
	}
	var nsec int64
	if fracPart != "" {
		// pad or truncate to nanosecond width
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		nsec, err = strconv.ParseInt(fracPart+strings.Repeat("0", 9-len(fracPart)), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad epoch fraction %q: %w", raw, err)
		}
	}
	return time.Unix(sec, nsec).UTC(), nil
}

// Clock converts a month-day ("01-02") and a time-of-day ("15:04:05.000")
// into an absolute time by prefixing the current calendar year.
func Clock(date, tod string) (time.Time, error) {
	stamp := fmt.Sprintf("%04d-%s %s", Now().Year(), date, tod)
	return time.ParseInLocation("2006-01-02 15:04:05.999999999", stamp, Location)
}

// ISO renders a resolved timestamp in ISO-8601 with up to microsecond
// precision, trailing zeros trimmed.
func ISO(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.999999")
}
