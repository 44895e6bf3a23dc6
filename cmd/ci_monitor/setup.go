package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/artifacts"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/config"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/monitor"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/observability"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

// loadSettings reads the config file and layers the global flags over it.
func loadSettings() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return nil, fmt.Errorf("config file is required (use --config or set %s)", config.EnvConfigPath)
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flagCfg := config.Config{
		StartDate:       startDate,
		EndDate:         endDate,
		JobCount:        jobCount,
		Zones:           zones,
		ProwBaseURL:     prowURL,
		ArtifactBaseURL: artifactURL,
		TimeoutSeconds:  timeoutSecs,
		Verbose:         verbose,
		UseBrowser:      useBrowser,
	}
	cfg := flagCfg.MergeWithDefaults(*fileCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newMonitor wires the lister, artifact client and printer described by cfg.
func newMonitor(cfg *config.Config, out io.Writer) (*monitor.Monitor, error) {
	color, err := colorEnabled(colorSetting, out)
	if err != nil {
		return nil, err
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Timeout()

	lister := prow.NewLister(cfg.ProwBaseURL, opts)
	lister.UseBrowser = cfg.UseBrowser
	lister.Verbose = cfg.Verbose

	client := artifacts.NewClient(cfg.ArtifactBaseURL, opts)
	client.Verbose = cfg.Verbose

	m := monitor.New(lister, client, observability.NewStyledPrinter(out, color))
	m.Verbose = cfg.Verbose
	return m, nil
}

// colorEnabled resolves the --color setting for w.
func colorEnabled(setting string, w io.Writer) (bool, error) {
	switch setting {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return isTTYWriter(w), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", setting)
	}
}

func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
