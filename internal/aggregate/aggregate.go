package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
)

// Key selects the grouping dimension for GroupBy.
type Key string

const (
	ByProgram  Key = "program"
	ByCategory Key = "category"
	ByMonth    Key = "month"
)

// ParseKey normalizes a user-supplied grouping key ("Program", " month ").
// Returns false for anything that is not a known dimension.
func ParseKey(raw string) (Key, bool) {
	switch Key(strings.ToLower(strings.TrimSpace(raw))) {
	case ByProgram:
		return ByProgram, true
	case ByCategory:
		return ByCategory, true
	case ByMonth:
		return ByMonth, true
	default:
		return "", false
	}
}

// Group is one aggregation bucket: record count, participant sum and mean
// satisfaction. A group exists only when at least one record fell into it,
// so the mean is always defined here; dataset-wide means live on Metrics.
type Group struct {
	Key          string  `json:"key"`
	Count        int     `json:"count"`
	Participants int     `json:"participants"`
	Satisfaction float64 `json:"satisfaction"`
}

// GroupBy buckets records by the given dimension. Program and category
// groups come back ranked (descending participant sum, key as tiebreaker);
// month groups come back chronologically for trend views. Records without a
// date are excluded from month buckets. Empty input yields an empty slice.
func GroupBy(records []domain.ProgramRecord, key Key) ([]Group, error) {
	type acc struct {
		count        int
		participants int
		satisfaction float64
	}

	buckets := map[string]*acc{}
	for _, r := range records {
		var k string
		switch key {
		case ByProgram:
			k = r.Program
		case ByCategory:
			k = r.Category
		case ByMonth:
			m, ok := r.Month()
			if !ok {
				continue
			}
			k = m
		default:
			return nil, fmt.Errorf("aggregate: unknown grouping key %q", key)
		}

		a := buckets[k]
		if a == nil {
			a = &acc{}
			buckets[k] = a
		}
		a.count++
		a.participants += r.Participants
		a.satisfaction += r.Satisfaction
	}

	groups := make([]Group, 0, len(buckets))
	for k, a := range buckets {
		groups = append(groups, Group{
			Key:          k,
			Count:        a.count,
			Participants: a.participants,
			Satisfaction: a.satisfaction / float64(a.count),
		})
	}

	if key == ByMonth {
		sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	} else {
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Participants != groups[j].Participants {
				return groups[i].Participants > groups[j].Participants
			}
			return groups[i].Key < groups[j].Key
		})
	}
	return groups, nil
}

// TopN trims a ranked group list to its first n entries (n <= 0 keeps all).
func TopN(groups []Group, n int) []Group {
	if n <= 0 || n >= len(groups) {
		return groups
	}
	return groups[:n]
}

// Metrics is the dashboard's headline row for one centre (or the whole
// dataset). AvgSatisfaction is nil for an empty record set: an undefined
// mean is reported as absent, never as zero.
type Metrics struct {
	TotalPrograms     int      `json:"totalPrograms"`
	TotalParticipants int      `json:"totalParticipants"`
	AvgSatisfaction   *float64 `json:"avgSatisfaction,omitempty"`
	UniquePrograms    int      `json:"uniquePrograms"`
	TargetAudiences   int      `json:"targetAudiences"`
}

func ComputeMetrics(records []domain.ProgramRecord) Metrics {
	m := Metrics{TotalPrograms: len(records)}
	if len(records) == 0 {
		return m
	}

	programs := map[string]struct{}{}
	categories := map[string]struct{}{}
	var satisfaction float64
	for _, r := range records {
		m.TotalParticipants += r.Participants
		satisfaction += r.Satisfaction
		programs[r.Program] = struct{}{}
		categories[r.Category] = struct{}{}
	}

	avg := satisfaction / float64(len(records))
	m.AvgSatisfaction = &avg
	m.UniquePrograms = len(programs)
	m.TargetAudiences = len(categories)
	return m
}

// ScoreBucket is one bar of the satisfaction histogram.
type ScoreBucket struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// SatisfactionHistogram counts records per 1..5 score, rounding fractional
// ratings to the nearest bucket. All five buckets are always present so
// charts keep a stable axis.
func SatisfactionHistogram(records []domain.ProgramRecord) []ScoreBucket {
	counts := [5]int{}
	for _, r := range records {
		score := int(math.Round(r.Satisfaction))
		if score < 1 {
			score = 1
		}
		if score > 5 {
			score = 5
		}
		counts[score-1]++
	}

	out := make([]ScoreBucket, 5)
	for i, c := range counts {
		out[i] = ScoreBucket{Score: i + 1, Count: c}
	}
	return out
}

// Centres returns the sorted distinct centre names in the dataset.
func Centres(records []domain.ProgramRecord) []string {
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.Centre == "" {
			continue
		}
		seen[r.Centre] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
