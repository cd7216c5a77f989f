package schedule

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayouts are tried in order when reading a date from a schedule.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Date is a point in time read from a schedule document.
//
// A Date that failed to parse is kept rather than rejected: it reports
// Valid() == false and every comparison against it is false, so any phase
// bounded by it never overlaps a window.
type Date struct {
	t     time.Time
	raw   string
	valid bool
}

// NewDate wraps a time as a valid Date.
func NewDate(t time.Time) Date {
	return Date{t: t.UTC(), valid: true}
}

// ParseDate reads s using the accepted layouts. It never fails; an
// unrecognised string yields an invalid Date carrying the raw text.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t.UTC(), raw: s, valid: true}
		}
	}
	return Date{raw: s}
}

// MustParseDate is ParseDate for literals known to be well formed.
func MustParseDate(s string) Date {
	d := ParseDate(s)
	if !d.valid {
		panic("schedule: malformed date " + s)
	}
	return d
}

// Valid reports whether the date parsed.
func (d Date) Valid() bool { return d.valid }

// Time returns the parsed time, or the zero time for an invalid date.
func (d Date) Time() time.Time { return d.t }

// Before reports d < t. Always false for an invalid date.
func (d Date) Before(t time.Time) bool {
	return d.valid && d.t.Before(t)
}

// After reports d > t. Always false for an invalid date.
func (d Date) After(t time.Time) bool {
	return d.valid && d.t.After(t)
}

func (d Date) String() string {
	if !d.valid {
		return "invalid(" + d.raw + ")"
	}
	return d.t.Format("2006-01-02")
}

// UnmarshalYAML accepts timestamps and plain strings. yaml.v3 resolves
// unquoted ISO dates as !!timestamp, quoted ones as !!str; both end up here
// as the node's text.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*d = Date{raw: node.Value}
		return nil
	}
	*d = ParseDate(node.Value)
	return nil
}

// optionalDate decodes a mapping value into a *Date. Null, empty and missing
// values all read as absent.
func optionalDate(node *yaml.Node) *Date {
	if node == nil || node.ShortTag() == "!!null" || (node.Kind == yaml.ScalarNode && strings.TrimSpace(node.Value) == "") {
		return nil
	}
	var d Date
	_ = d.UnmarshalYAML(node)
	return &d
}
