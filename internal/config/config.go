// Package config provides configuration for fwon runs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/teaserverse/fwon/internal/errors"
)

// Config holds the settings of a generate-and-persist run.
type Config struct {
	// Output is the destination file path
	Output string `json:"output" yaml:"output"`

	// Records is the number of records to generate
	Records uint64 `json:"records" yaml:"records"`

	// Workers is the number of generation goroutines (default runtime.NumCPU())
	Workers int `json:"workers" yaml:"workers"`

	// BufferSizeMB is the write buffer size in megabytes (1-1024, default 8)
	BufferSizeMB int `json:"buffer_size_mb" yaml:"buffer_size_mb"`

	// Seed makes generation reproducible for a fixed worker count. 0 draws fresh randomness.
	Seed uint64 `json:"seed" yaml:"seed"`

	// CreateDirs creates missing parent directories of Output
	CreateDirs bool `json:"create_dirs" yaml:"create_dirs"`

	// HistoryPath is the run catalog database. Empty disables run history.
	HistoryPath string `json:"history_path" yaml:"history_path"`

	// Verify reads the output back after writing and checks every record
	Verify bool `json:"verify" yaml:"verify"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		BufferSizeMB: 8,
	}
}

// BufferSize returns the write buffer size in bytes.
func (c *Config) BufferSize() int {
	return c.BufferSizeMB * 1024 * 1024
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Output == "" {
		return invalid("output path is required")
	}
	if c.Workers < 1 {
		return invalid(fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	if c.BufferSizeMB < 1 || c.BufferSizeMB > 1024 {
		return invalid(fmt.Sprintf("buffer_size_mb must be between 1 and 1024, got %d", c.BufferSizeMB))
	}
	if c.HistoryPath != "" && filepath.Clean(c.HistoryPath) == filepath.Clean(c.Output) {
		return invalid("history_path must differ from output")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeReadFailed, "failed to read config file", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCategoryValidation, ferrors.CodeInvalidConfig, "failed to parse YAML config", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCategoryValidation, ferrors.CodeInvalidConfig, "failed to parse JSON config", err)
		}
	default:
		return nil, invalid(fmt.Sprintf("unsupported config file format: %s", ext))
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the FWON_ prefix. Unparseable values are reported
// rather than silently ignored.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv("FWON_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("FWON_RECORDS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envErr("FWON_RECORDS", v, err)
		}
		cfg.Records = n
	}
	if v := os.Getenv("FWON_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envErr("FWON_WORKERS", v, err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("FWON_BUFFER_SIZE_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envErr("FWON_BUFFER_SIZE_MB", v, err)
		}
		cfg.BufferSizeMB = n
	}
	if v := os.Getenv("FWON_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envErr("FWON_SEED", v, err)
		}
		cfg.Seed = n
	}
	if v := os.Getenv("FWON_CREATE_DIRS"); v != "" {
		cfg.CreateDirs = v == "true" || v == "1"
	}
	if v := os.Getenv("FWON_HISTORY_PATH"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("FWON_VERIFY"); v != "" {
		cfg.Verify = v == "true" || v == "1"
	}
	return nil
}

func invalid(msg string) error {
	return ferrors.NewValidationError(ferrors.CodeInvalidConfig, msg)
}

func envErr(name, value string, err error) error {
	return ferrors.Wrap(ferrors.ErrCategoryValidation, ferrors.CodeInvalidConfig,
		fmt.Sprintf("invalid %s=%q", name, value), err)
}
