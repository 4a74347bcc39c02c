// =============================================================================
// billforge - Configuration Module
// =============================================================================
//
// Loads the application configuration from a YAML file, applies defaults and
// validates it. Every path the application writes to is created on load so
// commands never fail half-way through for a missing directory.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// OutputDir is where generated PDFs are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir is where processed workbooks are moved after a successful
	// generate run. Empty disables archival.
	ArchiveDir string `yaml:"archive_dir"`

	// ProfilePath is the JSON file holding the saved issuer profile.
	// Default: "./profile.json"
	ProfilePath string `yaml:"profile_path"`

	// DateFormat is the Go time layout for display dates.
	// Default: "02-01-2006" (dd-mm-yyyy)
	DateFormat string `yaml:"date_format"`

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional log destination; empty logs to stderr.
	LogFile string `yaml:"log_file"`

	// ServerAddr is the listen address for the preview server.
	// Default: ":8080"
	ServerAddr string `yaml:"server_addr"`

	// MaxUploadBytes caps the size of an uploaded workbook.
	// Default: 5 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Load reads a configuration file. A missing file is not an error: the
// defaults describe a fully working setup, so the tool runs with no config
// at all.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = "./profile.json"
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "02-01-2006"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
}

func validate(cfg *Config) error {
	dirs := []string{cfg.OutputDir}
	if cfg.ArchiveDir != "" {
		dirs = append(dirs, cfg.ArchiveDir)
	}
	if cfg.LogFile != "" {
		dirs = append(dirs, filepath.Dir(cfg.LogFile))
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	return nil
}
