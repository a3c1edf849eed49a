package filter

import "github.com/MennatullahTarek/Center-Dashboard/internal/domain"

// Criteria is the raw-data view's filter set: inclusion lists for program
// and category plus a minimum satisfaction threshold. An empty inclusion
// list matches nothing; "everything deselected" must read as zero rows, not
// as "no filter".
type Criteria struct {
	Programs        []string
	Categories      []string
	MinSatisfaction float64
}

// Apply returns the records matching every criterion, preserving input
// order.
func Apply(records []domain.ProgramRecord, c Criteria) []domain.ProgramRecord {
	programs := toSet(c.Programs)
	categories := toSet(c.Categories)

	out := make([]domain.ProgramRecord, 0, len(records))
	for _, r := range records {
		if !programs[r.Program] {
			continue
		}
		if !categories[r.Category] {
			continue
		}
		if r.Satisfaction < c.MinSatisfaction {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ByCentre restricts records to a single centre (the dashboard's centre
// selector). Unlike Criteria lists this is a plain equality filter.
func ByCentre(records []domain.ProgramRecord, centre string) []domain.ProgramRecord {
	out := make([]domain.ProgramRecord, 0, len(records))
	for _, r := range records {
		if r.Centre == centre {
			out = append(out, r)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
