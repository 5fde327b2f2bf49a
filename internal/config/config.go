// Package config loads folint configuration from YAML, with environment
// overrides for the settings most often changed per run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Semantics names accepted for inductive definitions.
var Semantics = []string{"wellfounded", "kripkekleene", "coinduction", "completion"}

// Config holds all folint configuration.
type Config struct {
	// Semantics selects how inductive definitions are completed.
	Semantics string `yaml:"semantics"`

	// Reserved lists extra symbol names excluded from dependency
	// analysis, in addition to the builtin ones.
	Reserved []string `yaml:"reserved,omitempty"`

	Output  OutputConfig  `yaml:"output"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig configures diagnostic rendering.
type OutputConfig struct {
	Format      string `yaml:"format"`       // text, json
	AddFilename bool   `yaml:"add_filename"` // prefix each diagnostic with the file name
	Timing      bool   `yaml:"timing"`       // print elapsed time per file
	Color       bool   `yaml:"color"`        // colorize severities
}

// WatchConfig configures re-checking on file changes.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Semantics: "wellfounded",
		Output: OutputConfig{
			Format: "text",
			Timing: true,
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if s := os.Getenv("FOLINT_SEMANTICS"); s != "" {
		c.Semantics = strings.ToLower(s)
	}
	if level := os.Getenv("FOLINT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("FOLINT_FORMAT"); format != "" {
		c.Output.Format = format
	}
	if os.Getenv("FOLINT_DEBUG") == "1" || strings.EqualFold(os.Getenv("FOLINT_DEBUG"), "true") {
		c.Logging.DebugMode = true
	}
}

// GetWatchDebounce returns the debounce interval, falling back to the
// default on a malformed value.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !slices.Contains(Semantics, c.Semantics) {
		return fmt.Errorf("unknown semantics %q (want one of %s)", c.Semantics, strings.Join(Semantics, ", "))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output.Format)
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch debounce: %w", err)
		}
	}
	return c.Logging.Validate()
}
