// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/monitor"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/schemas"
)

// EnvConfigPath names the environment variable holding the default config path.
const EnvConfigPath = "CI_MONITOR_CONFIG"

// Source is one Prow job to monitor.
type Source struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Link string `json:"link" yaml:"link" validate:"required,excludesall=/"` // Prow job name
}

// Config represents the monitor configuration loaded from a JSON or YAML file.
type Config struct {
	Sources []Source `json:"sources" yaml:"sources" validate:"required,min=1,dive"`

	// Date window, both or neither; start is the newer day.
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Most recent runs per source; used instead of today's runs when no window is set.
	JobCount int `json:"job_count,omitempty" yaml:"job_count,omitempty" validate:"gte=0,lte=1000"`

	Zones []string `json:"zones,omitempty" yaml:"zones,omitempty" validate:"dive,required"` // Lease allow-list

	// Endpoints
	ProwBaseURL     string `json:"prow_base_url,omitempty" yaml:"prow_base_url,omitempty" validate:"omitempty,url"`
	ArtifactBaseURL string `json:"artifact_base_url,omitempty" yaml:"artifact_base_url,omitempty" validate:"omitempty,url"`

	// Behavior
	TimeoutSeconds int  `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"gte=0,lte=300"` // Per-request timeout
	Verbose        bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`                                          // Print detailed debug information
	UseBrowser     bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`                                  // Render listing pages in headless Chrome
}

// DefaultPath returns the config path named by CI_MONITOR_CONFIG, if any.
func DefaultPath() string {
	return os.Getenv(EnvConfigPath)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig loads configuration from a JSON or YAML file (by extension)
// and checks it against the embedded schema.
// Returns an error if the file cannot be read, parsed or fails the schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data, isYAML(path))
}

// Parse decodes configuration content and checks it against the schema.
func Parse(data []byte, asYAML bool) (*Config, error) {
	var (
		document any
		cfg      Config
	)
	if asYAML {
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		document = dateStrings(document)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if document == nil {
		return nil, fmt.Errorf("config error: document is empty")
	}
	if err := schemas.ValidateConfig(document); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &cfg, nil
}

// dateStrings turns the timestamps YAML infers from unquoted dates back into
// day strings so the schema sees what the user wrote.
func dateStrings(v any) any {
	switch node := v.(type) {
	case time.Time:
		return node.Format(prow.DayLayout)
	case map[string]any:
		for k, child := range node {
			node[k] = dateStrings(child)
		}
	case map[any]any:
		for k, child := range node {
			node[k] = dateStrings(child)
		}
	case []any:
		for i, child := range node {
			node[i] = dateStrings(child)
		}
	}
	return v
}

// Validate checks field values and the date window.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed the '%s' check", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	_, _, window, err := c.DateRange()
	if err != nil {
		return err
	}
	if window && c.JobCount > 0 {
		return fmt.Errorf("config error: 'job_count' cannot be combined with a date window")
	}
	return nil
}

// DateRange returns the configured window. ok is false when no window is set.
func (c *Config) DateRange() (start, end time.Time, ok bool, err error) {
	if c.StartDate == "" && c.EndDate == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if c.StartDate == "" || c.EndDate == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("config error: 'start_date' and 'end_date' must be set together")
	}

	start, err = prow.ParseDay(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("config error: 'start_date': %w", err)
	}
	end, err = prow.ParseDay(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("config error: 'end_date': %w", err)
	}
	if start.Before(end) {
		return time.Time{}, time.Time{}, false, fmt.Errorf("config error: 'start_date' %s is before 'end_date' %s", c.StartDate, c.EndDate)
	}
	return start, end, true, nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return fetch.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MonitorSources converts the configured sources.
func (c *Config) MonitorSources() []monitor.Source {
	sources := make([]monitor.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, monitor.Source{Name: s.Name, Link: s.Link})
	}
	return sources
}

// MonitorOptions builds the report options of the configured window and zones.
func (c *Config) MonitorOptions() (monitor.Options, error) {
	opts := monitor.Options{Zones: c.Zones, Count: c.JobCount}
	start, end, ok, err := c.DateRange()
	if err != nil {
		return opts, err
	}
	if ok {
		opts.Start, opts.End = start, end
	}
	return opts, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer CLI flag values over the config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}
	// The date window is only taken as a pair.
	if result.StartDate == "" && result.EndDate == "" {
		result.StartDate = defaults.StartDate
		result.EndDate = defaults.EndDate
	}
	if result.JobCount == 0 {
		result.JobCount = defaults.JobCount
	}
	if len(result.Zones) == 0 {
		result.Zones = defaults.Zones
	}
	if result.ProwBaseURL == "" {
		result.ProwBaseURL = defaults.ProwBaseURL
	}
	if result.ArtifactBaseURL == "" {
		result.ArtifactBaseURL = defaults.ArtifactBaseURL
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so either side enables them
	result.Verbose = result.Verbose || defaults.Verbose
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	return result
}
