package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/artifacts"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/observability"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <spyglass-link>...",
	Short: "Show how job links are classified",
	Long: "Classify one or more SpyglassLinks offline and print the job type, platform, architecture, " +
		"release and the artifact step each one resolves to.",
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	color, err := colorEnabled(colorSetting, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	p := observability.NewStyledPrinter(cmd.OutOrStdout(), color)

	failed := 0
	rows := make([][]string, 0, len(args))
	for _, link := range args {
		ref, err := jobs.Parse(link)
		if err != nil {
			failed++
			p.Error("%v", err)
			continue
		}
		step, err := artifacts.TestStep(ref)
		if err != nil {
			step = "-"
		}
		rows = append(rows, []string{
			ref.ID,
			ref.JobType,
			string(ref.Platform),
			string(ref.Arch),
			ref.Release.String(),
			strconv.FormatBool(ref.Upgrade),
			step,
		})
	}
	if len(rows) > 0 {
		p.PrintTable([]string{"Job ID", "Job Type", "Platform", "Arch", "Release", "Upgrade", "Test Step"}, rows)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d links could not be classified", failed, len(args))
	}
	return nil
}
