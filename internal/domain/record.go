package domain

import "time"

// Fallback values applied when a source column is missing or a cell cannot
// be parsed. Column-level problems are policy, not errors: a load never
// fails because a spreadsheet lacks a column.
const (
	DefaultCentre       = "ICCO"
	DefaultProgram      = "Program"
	DefaultCategory     = "General"
	DefaultParticipants = 1
	DefaultSatisfaction = 4.0
)

// ProgramRecord is the canonical representation of one program entry inside
// this service. All sources (uploaded workbooks, CSV re-imports) map into
// this model, and all outputs (aggregates, exports) map from it.
type ProgramRecord struct {
	Centre  string `json:"centre"`
	Program string `json:"program"`

	// Date is nil when the source row had no parsable date. Records
	// without a date are kept; they just drop out of trend views.
	Date *time.Time `json:"date,omitempty"`

	Participants int     `json:"participants"` // >= 0
	Satisfaction float64 `json:"satisfaction"` // 1..5 scale
	Category     string  `json:"category"`
}

// Month returns the record's month bucket ("2025-03") and whether the
// record has a date at all.
func (r ProgramRecord) Month() (string, bool) {
	if r.Date == nil {
		return "", false
	}
	return r.Date.Format("2006-01"), true
}
