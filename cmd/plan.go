package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Benjamin-Elon/trellis/app"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/pkg/export"
)

var (
	planPlant       string
	planCity        string
	planMethod      string
	planYear        int
	planStart       string
	planSeasonEnd   string
	planYieldTarget float64
	planFormat      string
	planOut         string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a succession planting schedule",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planPlant, "plant", "", "plant name from the catalog")
	planCmd.Flags().StringVar(&planCity, "city", "", "city name from the catalog")
	planCmd.Flags().StringVar(&planMethod, "method", "", "sowing method (direct_sow, indoor_start, transplant)")
	planCmd.Flags().IntVar(&planYear, "year", 0, "planning year")
	planCmd.Flags().StringVar(&planStart, "start", "", "earliest sow date (YYYY-MM-DD)")
	planCmd.Flags().StringVar(&planSeasonEnd, "season-end", "", "hard season end (YYYY-MM-DD)")
	planCmd.Flags().Float64Var(&planYieldTarget, "yield-target", 0, "season yield target in kg")
	planCmd.Flags().StringVar(&planFormat, "format", "table", "output format (table, json, csv, xlsx)")
	planCmd.Flags().StringVar(&planOut, "out", "", "write output to a file instead of stdout")
	_ = planCmd.MarkFlagRequired("plant")
	_ = planCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	req := app.PlanRequest{
		Plant:         planPlant,
		City:          planCity,
		Method:        planMethod,
		Year:          planYear,
		YieldTargetKg: planYieldTarget,
	}
	if req.Start, err = parseDateFlag("start", planStart); err != nil {
		return err
	}
	if req.SeasonEnd, err = parseDateFlag("season-end", planSeasonEnd); err != nil {
		return err
	}

	sched, err := svc.Plan(cmd.Context(), req)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if planOut != "" {
		f, err := os.Create(planOut)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch planFormat {
	case "json":
		return export.WriteJSON(w, sched)
	case "csv":
		return export.WriteCSV(w, sched)
	case "xlsx":
		return export.WriteXLSX(w, sched)
	case "table":
		return writeScheduleTable(w, sched)
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
}

func writeScheduleTable(w io.Writer, s planner.Schedule) error {
	if s.Empty() {
		_, err := fmt.Fprintf(w, "no feasible planting window for %s in %s (%d)\n", s.Plant, s.City, s.Year)
		return err
	}
	fmt.Fprintf(w, "%s in %s, %s, %d (plan %s)\n", s.Plant, s.City, s.Method, s.Year, s.PlanID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSOW\tGERMINATION\tTRANSPLANT\tHARVEST START\tHARVEST END\tMULTIPLIER\tPLANTS")
	for _, r := range s.Rows {
		end := r.HarvestEnd.Format("2006-01-02")
		if r.Truncated {
			end += "*"
		}
		plants := "-"
		if r.PlantsRequired > 0 {
			plants = fmt.Sprintf("%d", r.PlantsRequired)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.3f\t%s\n",
			r.Index,
			r.SowDate.Format("2006-01-02"),
			optDate(r.GerminationDate),
			optDate(r.TransplantDate),
			r.HarvestStart.Format("2006-01-02"),
			end,
			r.YieldMultiplier,
			plants,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.PlantsTotal > 0 {
		fmt.Fprintf(w, "total plants: %d, realized yield: %.2f kg\n", s.PlantsTotal, s.RealizedKg)
	}
	return nil
}

func optDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
