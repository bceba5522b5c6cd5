package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Benjamin-Elon/trellis/app"
)

var (
	windowPlant     string
	windowCity      string
	windowMethod    string
	windowYear      int
	windowSeasonEnd string
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Solve the feasible sowing window for a season",
	RunE:  runWindow,
}

func init() {
	windowCmd.Flags().StringVar(&windowPlant, "plant", "", "plant name from the catalog")
	windowCmd.Flags().StringVar(&windowCity, "city", "", "city name from the catalog")
	windowCmd.Flags().StringVar(&windowMethod, "method", "", "sowing method (direct_sow, indoor_start, transplant)")
	windowCmd.Flags().IntVar(&windowYear, "year", 0, "planning year")
	windowCmd.Flags().StringVar(&windowSeasonEnd, "season-end", "", "hard season end (YYYY-MM-DD)")
	_ = windowCmd.MarkFlagRequired("plant")
	_ = windowCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	req := app.PlanRequest{
		Plant:  windowPlant,
		City:   windowCity,
		Method: windowMethod,
		Year:   windowYear,
	}
	if req.SeasonEnd, err = parseDateFlag("season-end", windowSeasonEnd); err != nil {
		return err
	}

	w, err := svc.Window(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if w.EarliestSow.IsZero() {
		fmt.Fprintf(out, "no feasible sow date for %s in %s\n", windowPlant, windowCity)
		if !w.ClimateEnd.IsZero() {
			fmt.Fprintf(out, "climate end:   %s\n", w.ClimateEnd.Format("2006-01-02"))
		}
		return nil
	}
	fmt.Fprintf(out, "earliest sow:  %s\n", w.EarliestSow.Format("2006-01-02"))
	fmt.Fprintf(out, "latest sow:    %s\n", w.LatestSow.Format("2006-01-02"))
	fmt.Fprintf(out, "last harvest:  %s\n", w.LastHarvest.Format("2006-01-02"))
	fmt.Fprintf(out, "climate end:   %s\n", w.ClimateEnd.Format("2006-01-02"))
	return nil
}
