// Package filters builds the predicate chain applied to parsed records.
//
// Each criterion is independent and side-effect-free; the chain is a plain
// logical AND over whichever criteria were configured. An empty chain accepts
// everything.
package filters

import (
	"regexp"
	"strings"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// Filter accepts or rejects a single record. Implementations must not mutate
// the record and must not depend on evaluation order.
type Filter interface {
	Match(rec *record.Record) bool
}

// Chain evaluates its filters with short-circuit AND semantics.
type Chain struct {
	filters []Filter
}

// Add appends a criterion to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Len reports how many criteria are configured.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Match returns true when every configured criterion accepts the record.
func (c *Chain) Match(rec *record.Record) bool {
	for _, f := range c.filters {
		if !f.Match(rec) {
			return false
		}
	}
	return true
}

// MinLevel passes records at or above a minimum severity.
type MinLevel struct {
	Min record.Level
}

func (f *MinLevel) Match(rec *record.Record) bool {
	return rec.Level >= f.Min
}

// TagSet passes records whose exact tag is in the allow-list.
type TagSet struct {
	tags map[string]struct{}
}

// NewTagSet builds a tag allow-list filter.
func NewTagSet(tags []string) *TagSet {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return &TagSet{tags: set}
}

func (f *TagSet) Match(rec *record.Record) bool {
	_, ok := f.tags[rec.Tag]
	return ok
}

// Regex passes records whose message matches a pattern anywhere.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles a message pattern. With ignoreCase set the pattern is
// compiled case-insensitively.
func NewRegex(pattern string, ignoreCase bool) (*Regex, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

func (f *Regex) Match(rec *record.Record) bool {
	return f.re.MatchString(rec.Msg)
}

// Substring passes records whose message contains a fixed substring,
// optionally case-folded.
type Substring struct {
	substr     string
	ignoreCase bool
}

// NewSubstring builds a substring filter. The case-insensitivity toggle is
// shared with Regex by the caller so both behave uniformly.
func NewSubstring(substr string, ignoreCase bool) *Substring {
	if ignoreCase {
		substr = strings.ToLower(substr)
	}
	return &Substring{substr: substr, ignoreCase: ignoreCase}
}

func (f *Substring) Match(rec *record.Record) bool {
	msg := rec.Msg
	if f.ignoreCase {
		msg = strings.ToLower(msg)
	}
	return strings.Contains(msg, f.substr)
}

// Pid passes records whose pid equals a fixed value. Records without a pid
// (time format) never pass.
type Pid struct {
	Pid int
}

func (f *Pid) Match(rec *record.Record) bool {
	return rec.PID != nil && *rec.PID == f.Pid
}
