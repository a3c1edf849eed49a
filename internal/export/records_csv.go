package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
)

// Download format for the filtered raw-data view.
// Keep header order EXACT: reporting templates downstream key on it.
var recordsHeader = []string{
	"Date",
	"Program",
	"Participants",
	"Satisfaction",
	"Category",
	"Centre",
}

const dateLayout = "2006-01-02"

// WriteRecordsCSV writes records in the dashboard download format.
func WriteRecordsCSV(w io.Writer, records []domain.ProgramRecord) error {
	cw := csv.NewWriter(w)
	// match typical spreadsheet templates
	cw.UseCRLF = true

	if err := cw.Write(recordsHeader); err != nil {
		return err
	}

	for _, r := range records {
		if err := cw.Write(toRecordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRecordRow(r domain.ProgramRecord) []string {
	date := ""
	if r.Date != nil {
		date = r.Date.Format(dateLayout)
	}

	return []string{
		date,                          // Date
		cleanCell(r.Program),          // Program
		strconv.Itoa(r.Participants),  // Participants
		floatToString(r.Satisfaction), // Satisfaction
		cleanCell(r.Category),         // Category
		cleanCell(r.Centre),           // Centre
	}
}

// ParseRecordsCSV reads a file previously produced by WriteRecordsCSV back
// into records. Columns are located by header name, so reordered files
// still parse; cells that fail to parse fall back to the same defaults the
// normalizer applies.
func ParseRecordsCSV(r io.Reader) ([]domain.ProgramRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("records csv: read header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var out []domain.ProgramRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("records csv: line %d: %w", line, err)
		}

		rec := domain.ProgramRecord{
			Program:      cellOr(row, col, "program", domain.DefaultProgram),
			Category:     cellOr(row, col, "category", domain.DefaultCategory),
			Centre:       cellOr(row, col, "centre", domain.DefaultCentre),
			Participants: domain.DefaultParticipants,
			Satisfaction: domain.DefaultSatisfaction,
		}

		if v := cell(row, col, "participants"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				rec.Participants = n
			}
		}
		if v := cell(row, col, "satisfaction"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 && f <= 5 {
				rec.Satisfaction = f
			}
		}
		if v := cell(row, col, "date"); v != "" {
			if d, err := time.Parse(dateLayout, v); err == nil {
				rec.Date = &d
			}
		}

		out = append(out, rec)
	}
	return out, nil
}

func cell(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellOr(row []string, col map[string]int, name, fallback string) string {
	if v := cell(row, col, name); v != "" {
		return v
	}
	return fallback
}

func floatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
