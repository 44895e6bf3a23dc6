package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/monitor"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the finished runs of each source without fetching artifacts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listJSON bool

// listedRun is the JSON form of one listed build.
type listedRun struct {
	Source  string `json:"source"`
	ID      string `json:"prow_job_id"`
	Started string `json:"started"`
	Result  string `json:"result"`
	Link    string `json:"link"`
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the runs as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
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

	runs := []listedRun{}
	failed := 0
	for _, src := range cfg.MonitorSources() {
		builds, err := m.List(cmd.Context(), src, opts)
		if err != nil {
			failed++
			m.Printer.Error("%s: %s", src.Name, monitor.ListingFailure(err))
			continue
		}
		for _, b := range builds {
			runs = append(runs, listedRun{
				Source:  src.Name,
				ID:      b.ID,
				Started: b.Started.UTC().Format("2006-01-02 15:04:05"),
				Result:  b.Result,
				Link:    m.JobLink(jobs.Reference{Link: b.SpyglassLink}),
			})
		}
	}

	if listJSON {
		jsonBytes, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	} else {
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{r.Source, r.ID, r.Started, r.Result})
		}
		m.Printer.PrintTable([]string{"Build", "Prow Job ID", "Started (UTC)", "Result"}, rows)
	}

	if failed > 0 {
		return fmt.Errorf("%d sources could not be listed", failed)
	}
	return nil
}
