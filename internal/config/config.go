package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source" yaml:"source"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig contains settings for the racecards page request
type SourceConfig struct {
	URL       string        `mapstructure:"url" yaml:"url"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OutputConfig contains CSV and console output settings
type OutputConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, replacing missing or out-of-range
// values with defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		c.Source.URL = DefaultURL
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid source.url: %q", c.Source.URL)
	}
	if strings.TrimSpace(c.Source.UserAgent) == "" {
		c.Source.UserAgent = DefaultUserAgent
	}
	if c.Source.Timeout < time.Second {
		c.Source.Timeout = DefaultTimeout
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		c.Output.Path = DefaultOutputPath
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case "text", "json":
	default:
		return fmt.Errorf("invalid output.format: %s (must be 'text' or 'json')", c.Output.Format)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	format, _ := logger.ParseFormat(c.Logging.Format)
	c.Logging.Format = string(format)
	return nil
}
