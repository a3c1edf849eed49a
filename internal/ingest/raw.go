package ingest

import "strings"

// RawTable is an untyped tabular dataset: one header row plus string cells,
// exactly as the spreadsheet had them. Schema varies per upload; resolving
// it into canonical records is the mappers package's job.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table carries no data rows.
func (t RawTable) Empty() bool { return len(t.Rows) == 0 }

// Column returns the index of the first candidate present in the header
// row. Matching is case-insensitive and ignores surrounding whitespace, so
// " Location Name " still resolves. Candidate order is priority order.
func (t RawTable) Column(candidates ...string) (int, bool) {
	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		key := normalizeHeader(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	for _, c := range candidates {
		if i, ok := idx[normalizeHeader(c)]; ok {
			return i, true
		}
	}
	return -1, false
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Cell returns the trimmed cell at idx, tolerating short rows and idx < 0.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
