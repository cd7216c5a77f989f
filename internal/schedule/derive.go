package schedule

import (
	"strings"
	"time"
)

// Interval types produced by Derive. Sub-releases may carry any other type.
const (
	TypeCurrent     = "current"
	TypeActive      = "active"
	TypeMaintenance = "maintenance"
	TypeUnstable    = "unstable"
)

// MasterName is the row name of the synthetic development bar.
const MasterName = "Master"

// Window is the date range a chart shows.
type Window struct {
	Start time.Time
	End   time.Time
}

// overlaps is the strict test start < w.End && end > w.Start.
func (w Window) overlaps(start, end Date) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// Interval is one bar of the chart. Start and End are the phase bounds as
// derived, not clamped to the window.
type Interval struct {
	Name  string    `yaml:"name" json:"name"`
	Type  string    `yaml:"type" json:"type"`
	Label string    `yaml:"label,omitempty" json:"label,omitempty"`
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end,omitempty" json:"end,omitempty"`
	// Open marks a sub-release without an end date. End is zero then.
	Open bool `yaml:"open,omitempty" json:"open,omitempty"`
}

// DeriveOptions control Derive.
type DeriveOptions struct {
	// ExcludeMaster drops the synthetic Master bar.
	ExcludeMaster bool
	// ProjectName prefixes every row name.
	ProjectName string
}

// phase is one step of the backward boundary fold: if present, it may emit
// an interval ending at the working end, then becomes the new working end.
type phase struct {
	typ   string
	start *Date
}

// Derive turns records into the ordered list of intervals overlapping w.
//
// For each record the phases are checked latest first (maintenance, active,
// current) and each present phase ends where the next later one begins. Sub
// releases follow their record's phases. The Master bar spanning w comes
// first unless excluded.
//
// A record without start or end fails the whole call with a
// *MissingFieldError and no intervals.
func Derive(records Records, w Window, opts DeriveOptions) ([]Interval, error) {
	var out []Interval
	if !opts.ExcludeMaster {
		out = append(out, Interval{
			Name:  MasterName,
			Type:  TypeUnstable,
			Start: w.Start,
			End:   w.End,
		})
	}

	for _, rec := range records {
		if rec.Start == nil {
			return nil, &MissingFieldError{Record: rec.Label, Field: FieldStart}
		}
		if rec.End == nil {
			return nil, &MissingFieldError{Record: rec.Label, Field: FieldEnd}
		}

		name := DisplayName(opts.ProjectName, rec.Label)
		phases := []phase{
			{TypeMaintenance, rec.Maintenance},
			{TypeActive, rec.LTS},
			{TypeCurrent, rec.Start},
		}

		end := *rec.End
		for _, p := range phases {
			if p.start == nil {
				continue
			}
			if w.overlaps(*p.start, end) {
				out = append(out, Interval{
					Name:  name,
					Type:  p.typ,
					Label: p.typ,
					Start: p.start.Time(),
					End:   end.Time(),
				})
			}
			end = *p.start
		}

		for _, r := range rec.Releases {
			if iv, ok := deriveRelease(name, r, w); ok {
				out = append(out, iv)
			}
		}
	}

	return out, nil
}

// deriveRelease applies the overlap test to a sub-release. A missing start
// never overlaps; a missing end is unbounded.
func deriveRelease(name string, r SubRelease, w Window) (Interval, bool) {
	if r.Start == nil || !r.Start.Before(w.End) {
		return Interval{}, false
	}

	typ := r.Type
	if typ == "" {
		typ = DefaultReleaseType
	}
	iv := Interval{Name: name, Type: typ, Label: r.Label, Start: r.Start.Time()}

	if r.End == nil {
		iv.Open = true
		return iv, true
	}
	if !r.End.After(w.Start) {
		return Interval{}, false
	}
	iv.End = r.End.Time()
	return iv, true
}

// DisplayName builds a row name from the project and a version label with
// any leading "v" removed.
func DisplayName(project, label string) string {
	return project + " " + strings.TrimPrefix(label, "v")
}
