package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // console, json
	File       string          `yaml:"file" json:"file,omitempty"`             // log to file instead of stderr
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"` // force debug level
	Categories map[string]bool `yaml:"categories,omitempty" json:"categories,omitempty"` // Per-category toggles
}

// Validate checks the level and format.
func (c *LoggingConfig) Validate() error {
	if c.Level != "" {
		if _, err := zapcore.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("invalid log level %q", c.Level)
		}
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("unknown log format %q (want console or json)", c.Format)
}
