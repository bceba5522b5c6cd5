package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Benjamin-Elon/trellis/core/planlog"
)

var (
	historyPlant string
	historyCity  string
	historyYear  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded plan runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPlant, "plant", "", "filter by plant name")
	historyCmd.Flags().StringVar(&historyCity, "city", "", "filter by city name")
	historyCmd.Flags().IntVar(&historyYear, "year", 0, "filter by planning year")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	recs, err := svc.History(cmd.Context(), planlog.LogQuery{
		Plant: historyPlant,
		City:  historyCity,
		Year:  historyYear,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "no recorded plans")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tPLAN\tPLANT\tCITY\tMETHOD\tYEAR\tROWS\tPLANTS\tKG")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.2f\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.PlanID, r.Plant, r.City, r.Method, r.Year,
			r.Successions, r.PlantsTotal, r.RealizedKg)
	}
	return tw.Flush()
}
