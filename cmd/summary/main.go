package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/MennatullahTarek/Center-Dashboard/internal/aggregate"
	"github.com/MennatullahTarek/Center-Dashboard/internal/concurrency"
	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
	"github.com/MennatullahTarek/Center-Dashboard/internal/mappers"
)

// summary prints the all-centres view over one or more workbooks:
//
//	summary data/MAC_ICCO_Programs_Database_2025.xlsx data/ramadan.xlsx
func main() {
	var (
		top     = flag.Int("top", 10, "number of programs in the ranking table")
		workers = flag.Int("workers", 4, "parallel file loads")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: summary [-top N] <spreadsheet> [spreadsheet...]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	columnMap := mappers.DefaultColumnMap()
	tables, errs := concurrency.ProcessParallel(ctx, paths,
		concurrency.ParallelOptions{MaxWorkers: *workers},
		func(ctx context.Context, _ int, path string) ([]domain.ProgramRecord, error) {
			table, err := ingest.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return mappers.Normalize(table, columnMap), nil
		})
	for _, err := range errs {
		log.Printf("WARN: %v (file skipped)", err)
	}

	var records []domain.ProgramRecord
	for _, t := range tables {
		records = append(records, t...)
	}

	metrics := aggregate.ComputeMetrics(records)
	fmt.Printf("Records: %d  Participants: %d  Programs: %d  Audiences: %d",
		metrics.TotalPrograms, metrics.TotalParticipants, metrics.UniquePrograms, metrics.TargetAudiences)
	if metrics.AvgSatisfaction != nil {
		fmt.Printf("  Avg satisfaction: %.2f/5", *metrics.AvgSatisfaction)
	}
	fmt.Println()
	fmt.Println()

	byCentre := make(map[string][]domain.ProgramRecord)
	for _, r := range records {
		byCentre[r.Centre] = append(byCentre[r.Centre], r)
	}

	centreTable := tablewriter.NewWriter(os.Stdout)
	centreTable.SetHeader([]string{"Centre", "Records", "Participants", "Avg Satisfaction"})
	for _, centre := range aggregate.Centres(records) {
		m := aggregate.ComputeMetrics(byCentre[centre])
		centreTable.Append([]string{
			centre,
			strconv.Itoa(m.TotalPrograms),
			strconv.Itoa(m.TotalParticipants),
			formatAvg(m.AvgSatisfaction),
		})
	}
	centreTable.Render()
	fmt.Println()

	if err := renderGroups(os.Stdout, records, aggregate.ByProgram, "Program", *top); err != nil {
		log.Fatal(err)
	}
	fmt.Println()
	if err := renderGroups(os.Stdout, records, aggregate.ByCategory, "Target Audience", 0); err != nil {
		log.Fatal(err)
	}
}

func renderGroups(out *os.File, records []domain.ProgramRecord, key aggregate.Key, label string, top int) error {
	groups, err := aggregate.GroupBy(records, key)
	if err != nil {
		return err
	}
	groups = aggregate.TopN(groups, top)

	t := tablewriter.NewWriter(out)
	t.SetHeader([]string{label, "Count", "Participants", "Avg Satisfaction"})
	for _, g := range groups {
		t.Append([]string{
			g.Key,
			strconv.Itoa(g.Count),
			strconv.Itoa(g.Participants),
			fmt.Sprintf("%.2f", g.Satisfaction),
		})
	}
	t.Render()
	return nil
}

func formatAvg(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *avg)
}
