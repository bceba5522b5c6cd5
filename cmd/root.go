// Package cmd holds the trellis CLI commands.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Benjamin-Elon/trellis/app"
	"github.com/Benjamin-Elon/trellis/config"
	"github.com/Benjamin-Elon/trellis/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "trellis",
	Short:         "Crop planting and harvest scheduler",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadService() (*app.Service, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func parseDateFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: invalid date %q, want YYYY-MM-DD", name, v)
	}
	return t, nil
}
