package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/monitor"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Print one summary row per job run",
	Long: "Summarize every run of each configured source: install status, lease, nightly image and " +
		"test result. A source whose runs cannot be listed is reported and the remaining sources continue.",
	Args: cobra.NoArgs,
	RunE: runBrief,
}

var (
	briefJSON    bool
	briefOutFile string
)

var briefHeaders = []string{"Build", "Prow Job ID", "Install Status", "Lease", "Nightly", "Test Result"}

func init() {
	briefCmd.Flags().BoolVar(&briefJSON, "json", false, "Print the reports as JSON")
	briefCmd.Flags().StringVarP(&briefOutFile, "out", "o", "", "Also write the JSON reports to this file")

	rootCmd.AddCommand(briefCmd)
}

func runBrief(cmd *cobra.Command, _ []string) error {
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
	reports := make([]*monitor.Report, 0, len(sources))
	failed := 0
	for _, src := range sources {
		report, err := m.Brief(cmd.Context(), src, opts)
		if err != nil {
			failed++
			report = &monitor.Report{RunID: m.RunID.String(), Source: src.Name, Jobs: []monitor.JobSummary{}, ListingError: monitor.ListingFailure(err)}
		}
		reports = append(reports, report)
	}

	if briefOutFile != "" || briefJSON {
		jsonBytes, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if briefOutFile != "" {
			if err := os.WriteFile(briefOutFile, jsonBytes, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		}
		if briefJSON {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		}
	}
	if !briefJSON {
		printBrief(m, reports)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources could not be listed", failed, len(sources))
	}
	return nil
}

func printBrief(m *monitor.Monitor, reports []*monitor.Report) {
	p := m.Printer

	var rows [][]string
	for _, report := range reports {
		for _, job := range report.Jobs {
			rows = append(rows, []string{job.Build, job.JobID, job.InstallStatus, job.Lease, job.Nightly, job.TestResult})
		}
	}
	if len(rows) > 0 {
		p.PrintTable(briefHeaders, rows)
		p.Blank()
	}

	for _, report := range reports {
		switch {
		case report.ListingError != "":
			p.Error("%s: %s", report.Source, report.ListingError)
		case report.Totals.Considered == 0:
			p.Line("No job runs on %s ", report.Source)
		default:
			p.Line("%s: %d/%d deploys succeeded, %d/%d e2e tests succeeded", report.Source,
				report.Totals.Deploys, report.Totals.Considered, report.Totals.E2E, report.Totals.Considered)
		}
	}
}
