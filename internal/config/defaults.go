package config

import (
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/logger"
)

// Default values
const (
	DefaultURL       = "https://www.sportinglife.com/racing/racecards"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second

	DefaultOutputPath   = "horses_data.csv"
	DefaultOutputFormat = "text"

	DefaultLogLevel  = "info"
	DefaultLogFormat = string(logger.FormatJSON)

	// EnvPrefix is prepended to every environment override, e.g. RACECARD_OUTPUT_PATH.
	EnvPrefix = "RACECARD"

	// ConfigName is the config file looked up in the working directory.
	ConfigName = "racecard"
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       DefaultURL,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Format: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
