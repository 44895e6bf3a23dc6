package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detailedCmd = &cobra.Command{
	Use:   "detailed",
	Short: "Print a per-run transcript with failure details",
	Long: "Walk every run of each configured source and print its lease, nightly image, crash and node " +
		"state, failed testcases or the install log excerpt, followed by the source totals.",
	Args: cobra.NoArgs,
	RunE: runDetailed,
}

func init() {
	rootCmd.AddCommand(detailedCmd)
}

func runDetailed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	opts, err := cfg.MonitorOptions()
	if err != nil {
		return err
	}
	m, err := newMonitor(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	sources := cfg.MonitorSources()
	failed := 0
	for _, src := range sources {
		if _, err := m.Detailed(cmd.Context(), src, opts); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources could not be listed", failed, len(sources))
	}
	return nil
}
