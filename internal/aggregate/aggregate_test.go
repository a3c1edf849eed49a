package aggregate

import (
	"testing"
	"time"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
	"github.com/MennatullahTarek/Center-Dashboard/internal/mappers"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseKey(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Key
		ok       bool
	}{
		{"program", ByProgram, true},
		{"Program", ByProgram, true},
		{" month ", ByMonth, true},
		{"category", ByCategory, true},
		{"centre", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		key, ok := ParseKey(tc.raw)
		if key != tc.expected || ok != tc.ok {
			t.Errorf("ParseKey(%q) = (%q, %v), want (%q, %v)", tc.raw, key, ok, tc.expected, tc.ok)
		}
	}
}

func TestGroupByProgramRanking(t *testing.T) {
	records := []domain.ProgramRecord{
		{Program: "Quran Classes", Category: "General", Participants: 10, Satisfaction: 5},
		{Program: "Youth Night", Category: "Youth", Participants: 40, Satisfaction: 4},
		{Program: "Quran Classes", Category: "General", Participants: 5, Satisfaction: 3},
	}

	groups, err := GroupBy(records, ByProgram)
	if err != nil {
		t.Fatalf("GroupBy() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("GroupBy() returned %d groups, want 2", len(groups))
	}

	// Ranked descending by participant sum.
	if groups[0].Key != "Youth Night" || groups[0].Participants != 40 {
		t.Errorf("groups[0] = %+v, want Youth Night with 40 participants", groups[0])
	}
	if groups[1].Key != "Quran Classes" || groups[1].Participants != 15 {
		t.Errorf("groups[1] = %+v, want Quran Classes with 15 participants", groups[1])
	}
	if groups[1].Count != 2 {
		t.Errorf("Quran Classes count = %d, want 2", groups[1].Count)
	}
	if groups[1].Satisfaction != 4 {
		t.Errorf("Quran Classes mean satisfaction = %v, want 4", groups[1].Satisfaction)
	}
}

func TestGroupByEmptyInput(t *testing.T) {
	for _, key := range []Key{ByProgram, ByCategory, ByMonth} {
		groups, err := GroupBy(nil, key)
		if err != nil {
			t.Errorf("GroupBy(nil, %q) error = %v, want nil", key, err)
		}
		if len(groups) != 0 {
			t.Errorf("GroupBy(nil, %q) returned %d groups, want 0", key, len(groups))
		}
	}
}

func TestGroupByUnknownKey(t *testing.T) {
	if _, err := GroupBy(nil, Key("centre")); err == nil {
		t.Error("GroupBy() with unknown key: error = nil, want error")
	}
}

func TestGroupByMonth(t *testing.T) {
	records := []domain.ProgramRecord{
		{Program: "A", Date: date(2025, time.March, 10), Participants: 5, Satisfaction: 4},
		{Program: "B", Date: date(2025, time.January, 2), Participants: 3, Satisfaction: 4},
		{Program: "C", Date: date(2025, time.March, 28), Participants: 7, Satisfaction: 4},
		{Program: "D", Participants: 100, Satisfaction: 4}, // no date, excluded
	}

	groups, err := GroupBy(records, ByMonth)
	if err != nil {
		t.Fatalf("GroupBy() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("GroupBy() returned %d month buckets, want 2", len(groups))
	}

	// Chronological for trend views.
	if groups[0].Key != "2025-01" || groups[0].Participants != 3 {
		t.Errorf("groups[0] = %+v, want 2025-01 with 3 participants", groups[0])
	}
	if groups[1].Key != "2025-03" || groups[1].Participants != 12 {
		t.Errorf("groups[1] = %+v, want 2025-03 with 12 participants", groups[1])
	}
}

func TestTopN(t *testing.T) {
	groups := []Group{{Key: "a"}, {Key: "b"}, {Key: "c"}}

	if got := TopN(groups, 2); len(got) != 2 {
		t.Errorf("TopN(3 groups, 2) returned %d, want 2", len(got))
	}
	if got := TopN(groups, 0); len(got) != 3 {
		t.Errorf("TopN(3 groups, 0) returned %d, want 3 (0 keeps all)", len(got))
	}
	if got := TopN(groups, 10); len(got) != 3 {
		t.Errorf("TopN(3 groups, 10) returned %d, want 3", len(got))
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.TotalPrograms != 0 || m.TotalParticipants != 0 {
		t.Errorf("ComputeMetrics(nil) = %+v, want zeros", m)
	}
	if m.AvgSatisfaction != nil {
		t.Errorf("AvgSatisfaction = %v, want nil (undefined mean is absent, not zero)", *m.AvgSatisfaction)
	}
}

func TestComputeMetrics(t *testing.T) {
	records := []domain.ProgramRecord{
		{Program: "A", Category: "Youth", Participants: 10, Satisfaction: 5},
		{Program: "A", Category: "General", Participants: 20, Satisfaction: 3},
		{Program: "B", Category: "Youth", Participants: 5, Satisfaction: 4},
	}

	m := ComputeMetrics(records)
	if m.TotalPrograms != 3 {
		t.Errorf("TotalPrograms = %d, want 3", m.TotalPrograms)
	}
	if m.TotalParticipants != 35 {
		t.Errorf("TotalParticipants = %d, want 35", m.TotalParticipants)
	}
	if m.AvgSatisfaction == nil || *m.AvgSatisfaction != 4 {
		t.Errorf("AvgSatisfaction = %v, want 4", m.AvgSatisfaction)
	}
	if m.UniquePrograms != 2 {
		t.Errorf("UniquePrograms = %d, want 2", m.UniquePrograms)
	}
	if m.TargetAudiences != 2 {
		t.Errorf("TargetAudiences = %d, want 2", m.TargetAudiences)
	}
}

func TestSatisfactionHistogram(t *testing.T) {
	records := []domain.ProgramRecord{
		{Satisfaction: 5},
		{Satisfaction: 4.6}, // rounds to 5
		{Satisfaction: 4},
		{Satisfaction: 1.2}, // rounds to 1
	}

	hist := SatisfactionHistogram(records)
	if len(hist) != 5 {
		t.Fatalf("histogram has %d buckets, want 5", len(hist))
	}

	expected := map[int]int{1: 1, 2: 0, 3: 0, 4: 1, 5: 2}
	for _, b := range hist {
		if b.Count != expected[b.Score] {
			t.Errorf("score %d count = %d, want %d", b.Score, b.Count, expected[b.Score])
		}
	}
}

func TestCentres(t *testing.T) {
	records := []domain.ProgramRecord{
		{Centre: "Mississauga"},
		{Centre: "Ajax"},
		{Centre: "Mississauga"},
	}

	centres := Centres(records)
	if len(centres) != 2 || centres[0] != "Ajax" || centres[1] != "Mississauga" {
		t.Errorf("Centres() = %v, want [Ajax Mississauga]", centres)
	}
}

// Full pipeline over the canonical two-row example: normalization defaults
// plus aggregation in one pass.
func TestNormalizeAndAggregateEndToEnd(t *testing.T) {
	tab := ingest.RawTable{
		Headers: []string{"Location", "Program", "Participants", "Satisfaction"},
		Rows: [][]string{
			{"A", "Quran Classes", "10", "5"},
			{"A", "Quran Classes", "", ""},
		},
	}

	records := mappers.Normalize(tab, mappers.DefaultColumnMap())
	if len(records) != 2 {
		t.Fatalf("Normalize() returned %d records, want 2", len(records))
	}
	for i, r := range records {
		if r.Centre != "A" {
			t.Errorf("record %d: Centre = %q, want %q", i, r.Centre, "A")
		}
		if r.Program != "Quran Classes" {
			t.Errorf("record %d: Program = %q, want %q", i, r.Program, "Quran Classes")
		}
	}
	if records[1].Participants != 1 || records[1].Satisfaction != 4 {
		t.Errorf("record 1 defaults = (%d, %v), want (1, 4)", records[1].Participants, records[1].Satisfaction)
	}

	groups, err := GroupBy(records, ByProgram)
	if err != nil {
		t.Fatalf("GroupBy() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("GroupBy() returned %d groups, want 1", len(groups))
	}

	g := groups[0]
	if g.Count != 2 {
		t.Errorf("count = %d, want 2", g.Count)
	}
	if g.Participants != 11 {
		t.Errorf("participants sum = %d, want 11", g.Participants)
	}
	if g.Satisfaction != 4.5 {
		t.Errorf("satisfaction mean = %v, want 4.5", g.Satisfaction)
	}
}
