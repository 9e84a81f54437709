// Package config provides YAML-based configuration for the dispatch server
// and CLI. A default file is written on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root of the configuration file.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                 int    `yaml:"port"`
	BindAddress          string `yaml:"bind_address"`
	EnableCORS           bool   `yaml:"enable_cors"`
	AllowOrigins         string `yaml:"allow_origins"`
	ReadTimeout          int    `yaml:"read_timeout_seconds"`
	WriteTimeout         int    `yaml:"write_timeout_seconds"`
	IdleTimeout          int    `yaml:"idle_timeout_seconds"`
	BodyLimit            string `yaml:"body_limit"`
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
}

// StorageConfig selects where dispatch tables are kept.
type StorageConfig struct {
	DataDirectory     string `yaml:"data_directory"`
	Backend           string `yaml:"backend"` // file, duckdb or memory
	Codec             string `yaml:"codec"`   // json or msgpack
	DuckDBPath        string `yaml:"duckdb_path"`
	DuckDBMemoryLimit string `yaml:"duckdb_memory_limit"`
	DuckDBThreads     int    `yaml:"duckdb_threads"`
}

// DispatchConfig holds the dispatch form defaults.
type DispatchConfig struct {
	DefaultSpeedKmh   float64 `yaml:"default_speed_kmh"`
	DefaultDistanceKm float64 `yaml:"default_distance_km"`
	DistanceStepKm    float64 `yaml:"distance_step_km"`
}

// RefreshConfig sets how often live views update.
type RefreshConfig struct {
	ClockSeconds int `yaml:"clock_seconds"`
	GapSeconds   int `yaml:"gap_seconds"`
}

// LoggingConfig controls the application log.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`    // json or text
	Directory string `yaml:"directory"` // empty logs to stderr
}

// FileName is the config file looked up next to the executable.
const FileName = "navlog.yaml"

// DefaultPath returns FileName in the executable's directory, or in the
// working directory if the executable cannot be located.
func DefaultPath() string {
	exePath, err := os.Executable()
	if err != nil {
		return FileName
	}
	return filepath.Join(filepath.Dir(exePath), FileName)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                 3000,
			BindAddress:          "0.0.0.0",
			EnableCORS:           true,
			AllowOrigins:         "*",
			ReadTimeout:          30,
			WriteTimeout:         30,
			IdleTimeout:          120,
			BodyLimit:            "1M",
			EnableRequestLogging: true,
		},
		Storage: StorageConfig{
			DataDirectory:     "./data",
			Backend:           "file",
			Codec:             "json",
			DuckDBMemoryLimit: "256MB",
			DuckDBThreads:     1,
		},
		Dispatch: DispatchConfig{
			DefaultSpeedKmh:   2.5,
			DefaultDistanceKm: 5.0,
			DistanceStepKm:    0.1,
		},
		Refresh: RefreshConfig{
			ClockSeconds: 1,
			GapSeconds:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a YAML file, creating it with
// defaults if it does not exist. Keys missing from the file keep their
// default values.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration to a YAML file.
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Navigation dispatch log configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if backend := os.Getenv("NAVLOG_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}

	if level := os.Getenv("NAVLOG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if c.Storage.DuckDBPath != "" && !filepath.IsAbs(c.Storage.DuckDBPath) {
		c.Storage.DuckDBPath = filepath.Join(configDir, c.Storage.DuckDBPath)
	}
	if c.Logging.Directory != "" && !filepath.IsAbs(c.Logging.Directory) {
		c.Logging.Directory = filepath.Join(configDir, c.Logging.Directory)
	}
}

// Validate rejects values the server cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case "file", "duckdb", "memory":
	default:
		return fmt.Errorf("storage.backend must be file, duckdb or memory, got %q", c.Storage.Backend)
	}
	switch c.Storage.Codec {
	case "json", "msgpack":
	default:
		return fmt.Errorf("storage.codec must be json or msgpack, got %q", c.Storage.Codec)
	}
	if c.Dispatch.DefaultSpeedKmh <= 0 {
		return fmt.Errorf("dispatch.default_speed_kmh must be positive")
	}
	if c.Dispatch.DefaultDistanceKm < 0 || c.Dispatch.DistanceStepKm <= 0 {
		return fmt.Errorf("dispatch distance defaults must be non-negative with a positive step")
	}
	if c.Refresh.ClockSeconds <= 0 || c.Refresh.GapSeconds <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}
	return nil
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ClockInterval is the displayed clock's refresh period.
func (c *AppConfig) ClockInterval() time.Duration {
	return time.Duration(c.Refresh.ClockSeconds) * time.Second
}

// GapInterval is the gap column's refresh period.
func (c *AppConfig) GapInterval() time.Duration {
	return time.Duration(c.Refresh.GapSeconds) * time.Second
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{c.Storage.DataDirectory}
	if c.Logging.Directory != "" {
		dirs = append(dirs, c.Logging.Directory)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
