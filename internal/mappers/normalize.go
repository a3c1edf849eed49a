package mappers

import (
	"math"
	"strconv"
	"time"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
)

// ColumnMap is the ordered candidate-name configuration for resolving a raw
// table into canonical fields. Order matters: a table carrying both
// "Location Name" and "Location" resolves the centre from "Location Name".
type ColumnMap struct {
	Centre       []string
	Program      []string
	Date         []string
	Participants []string
	Satisfaction []string
	Category     []string
}

// DefaultColumnMap matches the column variations seen across the centres'
// real workbooks (Regular Programs, Courses & Classes, Youth Programs, ...).
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Centre:       []string{"Location Name", "Location", "Center"},
		Program:      []string{"Program Name", "Course Name", "Program"},
		Date:         []string{"Date"},
		Participants: []string{"Participants"},
		Satisfaction: []string{"Satisfaction"},
		Category:     []string{"Target Audience", "Category"},
	}
}

// Date layouts tried in order. Excel renditions of dates vary with the cell
// format, so both ISO and US short forms show up in practice.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"02-Jan-06",
	"January 2, 2006",
}

// Normalize resolves a raw table into canonical program records. It never
// fails: missing columns and malformed cells degrade to the documented
// defaults, and only rows that are empty across every source column are
// dropped.
func Normalize(t ingest.RawTable, cm ColumnMap) []domain.ProgramRecord {
	centreIdx, _ := t.Column(cm.Centre...)
	programIdx, _ := t.Column(cm.Program...)
	dateIdx, hasDate := t.Column(cm.Date...)
	participantsIdx, _ := t.Column(cm.Participants...)
	satisfactionIdx, _ := t.Column(cm.Satisfaction...)
	categoryIdx, _ := t.Column(cm.Category...)

	out := make([]domain.ProgramRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		if rowEmpty(row) {
			continue
		}

		rec := domain.ProgramRecord{
			Centre:       textField(row, centreIdx, domain.DefaultCentre),
			Program:      textField(row, programIdx, domain.DefaultProgram),
			Participants: participantsField(row, participantsIdx),
			Satisfaction: satisfactionField(row, satisfactionIdx),
			Category:     textField(row, categoryIdx, domain.DefaultCategory),
		}
		if hasDate {
			rec.Date = parseDate(ingest.Cell(row, dateIdx))
		}
		out = append(out, rec)
	}
	return out
}

func rowEmpty(row []string) bool {
	for i := range row {
		if ingest.Cell(row, i) != "" {
			return false
		}
	}
	return true
}

func textField(row []string, idx int, fallback string) string {
	if v := ingest.Cell(row, idx); v != "" {
		return v
	}
	return fallback
}

// participantsField parses a non-negative count; anything else (absent
// column, blanks, text, negatives) counts the row as one participant.
func participantsField(row []string, idx int) int {
	f, err := strconv.ParseFloat(ingest.Cell(row, idx), 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return domain.DefaultParticipants
	}
	return int(f)
}

// satisfactionField parses a 1-5 rating; out-of-range and non-numeric
// values resolve to the neutral default.
func satisfactionField(row []string, idx int) float64 {
	f, err := strconv.ParseFloat(ingest.Cell(row, idx), 64)
	if err != nil || math.IsNaN(f) || f < 1 || f > 5 {
		return domain.DefaultSatisfaction
	}
	return f
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	return nil
}
