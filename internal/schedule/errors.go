package schedule

import "strconv"

// Field names reported by MissingFieldError.
const (
	FieldStart = "start"
	FieldEnd   = "end"
)

// MissingFieldError is returned by Derive when a version record lacks one of
// its required dates. Derivation stops at the first such record and returns
// no intervals.
//
// Record is the record's key as it appears in the schedule (for example
// "v18"), Field is FieldStart or FieldEnd.
type MissingFieldError struct {
	Record string
	Field  string
}

// Error implements the error interface for MissingFieldError.
//
// The message format is:
//
//	schedule: record "v18": missing required field "end"
func (e *MissingFieldError) Error() string {
	return "schedule: record " + strconv.Quote(e.Record) + ": missing required field " + strconv.Quote(e.Field)
}

// DecodeError is returned when a schedule document has the wrong shape.
// Path locates the offending node, for example "records.v18.releases".
type DecodeError struct {
	Path   string
	Line   int
	Reason string
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	msg := "schedule: cannot decode"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += " (line " + strconv.Itoa(e.Line) + ")"
	}
	return msg + ": " + e.Reason
}
