package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Benjamin-Elon/trellis/app"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

var (
	explainPlant     string
	explainCity      string
	explainMethod    string
	explainYear      int
	explainSeasonEnd string
	explainAll       bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show day-by-day sow verdicts across a season",
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainPlant, "plant", "", "plant name from the catalog")
	explainCmd.Flags().StringVar(&explainCity, "city", "", "city name from the catalog")
	explainCmd.Flags().StringVar(&explainMethod, "method", "", "sowing method (direct_sow, indoor_start, transplant)")
	explainCmd.Flags().IntVar(&explainYear, "year", 0, "planning year")
	explainCmd.Flags().StringVar(&explainSeasonEnd, "season-end", "", "hard season end (YYYY-MM-DD)")
	explainCmd.Flags().BoolVar(&explainAll, "all", false, "print every day instead of grouped spans")
	_ = explainCmd.MarkFlagRequired("plant")
	_ = explainCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	req := app.PlanRequest{
		Plant:  explainPlant,
		City:   explainCity,
		Method: explainMethod,
		Year:   explainYear,
	}
	if req.SeasonEnd, err = parseDateFlag("season-end", explainSeasonEnd); err != nil {
		return err
	}

	entries, err := svc.Explain(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if explainAll {
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %s\n", e.Date.Format("2006-01-02"), e.Reason)
		}
		return nil
	}
	for _, r := range groupRuns(entries) {
		fmt.Fprintf(out, "%s .. %s  %-22s %dd\n",
			r.start.Format("2006-01-02"), r.end.Format("2006-01-02"), r.reason, r.days)
	}
	return nil
}

type reasonRun struct {
	start, end time.Time
	reason     planner.Reason
	days       int
}

// groupRuns collapses consecutive days sharing a reason into spans.
func groupRuns(entries []planner.DayEntry) []reasonRun {
	var runs []reasonRun
	for _, e := range entries {
		if n := len(runs); n > 0 && runs[n-1].reason == e.Reason {
			runs[n-1].end = e.Date
			runs[n-1].days++
			continue
		}
		runs = append(runs, reasonRun{start: e.Date, end: e.Date, reason: e.Reason, days: 1})
	}
	return runs
}
