package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"medocr/internal/acquire"
	"medocr/internal/logger"
	"medocr/internal/submit"
)

// DefaultFile is read when MEDOCR_CONFIG is unset and the file exists.
const DefaultFile = "medocr.toml"

type Config struct {
	// Backend Configuration
	BackendHost   string        `toml:"backend_host"`
	SubmitTimeout time.Duration `toml:"-"`

	// Acquisition Configuration
	AcquisitionMode acquire.Mode `toml:"-"`

	// Logging Configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimeFormat string `toml:"log_time_format"`
	LogOutput     string `toml:"log_output"`

	// Raw values before parsing
	RawSubmitTimeout   string `toml:"submit_timeout"`
	RawAcquisitionMode string `toml:"acquisition_mode"`
}

// Load builds the configuration from defaults, the optional TOML file and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	config := &Config{
		BackendHost:        "localhost",
		RawSubmitTimeout:   "0s",
		RawAcquisitionMode: string(acquire.ModeAuto),
		LogLevel:           "info",
		LogFormat:          "console",
		LogTimeFormat:      "2006-01-02T15:04:05Z07:00",
		LogOutput:          "stderr",
	}

	if err := config.loadFile(); err != nil {
		return nil, err
	}

	config.BackendHost = getEnv("BACKEND_HOST", config.BackendHost)
	config.RawSubmitTimeout = getEnv("SUBMIT_TIMEOUT", config.RawSubmitTimeout)
	config.RawAcquisitionMode = getEnv("ACQUISITION_MODE", config.RawAcquisitionMode)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)
	config.LogTimeFormat = getEnv("LOG_TIME_FORMAT", config.LogTimeFormat)
	config.LogOutput = getEnv("LOG_OUTPUT", config.LogOutput)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) loadFile() error {
	path, explicit := os.LookupEnv("MEDOCR_CONFIG")
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.BackendHost == "" {
		return fmt.Errorf("BACKEND_HOST must not be empty")
	}

	timeout, err := time.ParseDuration(c.RawSubmitTimeout)
	if err != nil {
		return fmt.Errorf("SUBMIT_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return fmt.Errorf("SUBMIT_TIMEOUT must not be negative")
	}
	c.SubmitTimeout = timeout

	mode, err := acquire.ParseMode(c.RawAcquisitionMode)
	if err != nil {
		return fmt.Errorf("ACQUISITION_MODE: %w", err)
	}
	c.AcquisitionMode = mode

	return nil
}

// Endpoint returns the processing URL on the configured host.
func (c *Config) Endpoint() string {
	return submit.Endpoint(c.BackendHost)
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
