package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MennatullahTarek/Center-Dashboard/internal/aggregate"
	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/export"
	"github.com/MennatullahTarek/Center-Dashboard/internal/filter"
)

func (a *App) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (a *App) CentresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"centres": aggregate.Centres(a.records()),
		})
	}
}

func (a *App) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := a.centreRecords(r)
		writeJSON(w, http.StatusOK, aggregate.ComputeMetrics(records))
	}
}

func (a *App) AggregatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := aggregate.ParseKey(r.URL.Query().Get("by"))
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown grouping %q (want program, category or month)", r.URL.Query().Get("by")))
			return
		}

		records := a.centreRecords(r)
		groups, err := aggregate.GroupBy(records, key)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if top := r.URL.Query().Get("top"); top != "" && key != aggregate.ByMonth {
			n, err := strconv.Atoi(top)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid top %q", top))
				return
			}
			groups = aggregate.TopN(groups, n)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"by":     key,
			"groups": groups,
		})
	}
}

func (a *App) SatisfactionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := a.centreRecords(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"histogram": aggregate.SatisfactionHistogram(records),
		})
	}
}

func (a *App) RecordsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := a.filteredCentreRecords(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(records),
			"records": records,
		})
	}
}

func (a *App) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := a.filteredCentreRecords(r)
		centre := mux.Vars(r)["centre"]

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", centre+"_programs_data.csv"))

		out, finish := compressedWriter(w, r)
		if err := export.WriteRecordsCSV(out, records); err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		if err := finish(); err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
		}
	}
}

func (a *App) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.Loader.Cache.Invalidate()
		writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
	}
}

func (a *App) centreRecords(r *http.Request) []domain.ProgramRecord {
	return filter.ByCentre(a.records(), mux.Vars(r)["centre"])
}

// filteredCentreRecords applies the raw-data view's filters. An absent
// inclusion param means the UI default (everything selected); a present but
// empty one means everything deselected, i.e. zero rows.
func (a *App) filteredCentreRecords(r *http.Request) []domain.ProgramRecord {
	records := a.centreRecords(r)
	q := r.URL.Query()

	crit := filter.Criteria{
		Programs:   inclusionList(q, "programs", func() []string { return distinctPrograms(records) }),
		Categories: inclusionList(q, "categories", func() []string { return distinctCategories(records) }),
	}
	if v := q.Get("minSatisfaction"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			crit.MinSatisfaction = f
		}
	}
	return filter.Apply(records, crit)
}

func inclusionList(q map[string][]string, name string, all func() []string) []string {
	values, present := q[name]
	if !present {
		return all()
	}
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func distinctPrograms(records []domain.ProgramRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Program]; !ok {
			seen[r.Program] = struct{}{}
			out = append(out, r.Program)
		}
	}
	return out
}

func distinctCategories(records []domain.ProgramRecord) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			out = append(out, r.Category)
		}
	}
	return out
}
