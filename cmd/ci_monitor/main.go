// Package main provides the entry point for the CI monitor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ci_monitor",
	Short: "Prow CI monitor for OpenShift Power and Z jobs",
	Long: "ci_monitor lists the runs of configured Prow jobs, fetches their artifacts and reports " +
		"install status, lease, nightly image and e2e test failures per run.",
	SilenceUsage: true,
}

var (
	configPath   string
	startDate    string
	endDate      string
	jobCount     int
	zones        []string
	prowURL      string
	artifactURL  string
	timeoutSecs  int
	verbose      bool
	useBrowser   bool
	colorSetting string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to JSON or YAML config file (defaults to $CI_MONITOR_CONFIG)")
	flags.StringVar(&startDate, "start-date", "", "Newest day of the window, YYYY-MM-DD (requires --end-date)")
	flags.StringVar(&endDate, "end-date", "", "Oldest day of the window, YYYY-MM-DD (requires --start-date)")
	flags.IntVar(&jobCount, "count", 0, "Report the latest N finished runs instead of today's (no date window)")
	flags.StringSliceVar(&zones, "zone", nil, "Only report runs holding one of these leases (repeatable)")
	flags.StringVar(&prowURL, "prow-url", "", "Prow base URL (overrides config)")
	flags.StringVar(&artifactURL, "artifact-url", "", "Artifact base URL (overrides config)")
	flags.IntVar(&timeoutSecs, "timeout", 0, "Per-request timeout in seconds (overrides config)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every fetch and extraction step to stderr")
	flags.BoolVar(&useBrowser, "use-browser", false, "Render job-history pages in headless Chrome when needed")
	flags.StringVar(&colorSetting, "color", "auto", "Color output: auto, always or never")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
