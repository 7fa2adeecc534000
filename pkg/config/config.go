package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv
const EnvPrefix = "SPACEDASH_"

// Config holds all configuration options for the space data dashboard
type Config struct {
	// Upstream API settings
	API APIConfig `yaml:"api" json:"api"`

	// Fetch sizing
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Image archive settings
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Tabular export settings
	Export ExportConfig `yaml:"export" json:"export"`

	// HTTP dashboard settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds settings for the Launch Library 2 API
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// FetchConfig controls how many records are requested per category fetch
type FetchConfig struct {
	// MinFetch is the floor applied to every over-fetch
	MinFetch     int `yaml:"min_fetch" json:"min_fetch"`
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit"`
}

// ArchiveConfig holds zip archive settings
type ArchiveConfig struct {
	OutputDirectory string `yaml:"output_directory" json:"output_directory"`
	ImageExtension  string `yaml:"image_extension" json:"image_extension"`
}

// ExportConfig holds tabular export settings
type ExportConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	SheetName     string `yaml:"sheet_name" json:"sheet_name"`
}

// ServerConfig holds HTTP dashboard settings
type ServerConfig struct {
	Address      string        `yaml:"address" json:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	File   string `yaml:"file" json:"file"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://lldev.thespacedevs.com",
			UserAgent: "spacedash/1.0 (+https://thespacedevs.com)",
			Timeout:   30 * time.Second,
		},
		Fetch: FetchConfig{
			MinFetch:     100,
			DefaultLimit: 5,
			MaxLimit:     100,
		},
		Archive: ArchiveConfig{
			OutputDirectory: ".",
			ImageExtension:  ".jpg",
		},
		Export: ExportConfig{
			DefaultFormat: "csv",
			SheetName:     "Launches",
		},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute, // archive downloads are slow
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "console",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sAPI_TIMEOUT: %w", EnvPrefix, err)
		}
		c.API.Timeout = d
	}

	if v := os.Getenv(EnvPrefix + "MIN_FETCH"); v != "" {
		var val int
		fmt.Sscanf(v, "%d", &val)
		if val > 0 {
			c.Fetch.MinFetch = val
		}
	}
	if v := os.Getenv(EnvPrefix + "DEFAULT_LIMIT"); v != "" {
		var val int
		fmt.Sscanf(v, "%d", &val)
		if val > 0 {
			c.Fetch.DefaultLimit = val
		}
	}

	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Archive.OutputDirectory = v
	}
	if v := os.Getenv(EnvPrefix + "EXPORT_FORMAT"); v != "" {
		c.Export.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "SERVER_ADDR"); v != "" {
		c.Server.Address = v
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".spacedash.yaml",
		".spacedash.yml",
		filepath.Join(home, ".config", "spacedash", "config.yaml"),
		filepath.Join(home, ".config", "spacedash", "config.yml"),
		filepath.Join(home, ".spacedash.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, errors.New("API base URL must start with http:// or https://"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	if c.Fetch.MinFetch <= 0 {
		errs = append(errs, errors.New("min fetch must be positive"))
	}
	if c.Fetch.DefaultLimit <= 0 {
		errs = append(errs, errors.New("default limit must be positive"))
	}
	if c.Fetch.MaxLimit < c.Fetch.DefaultLimit {
		errs = append(errs, errors.New("max limit must not be below the default limit"))
	}

	if c.Archive.ImageExtension == "" || !strings.HasPrefix(c.Archive.ImageExtension, ".") {
		errs = append(errs, errors.New("image extension must start with a dot"))
	}

	validFormats := map[string]bool{"csv": true, "xlsx": true}
	if !validFormats[strings.ToLower(c.Export.DefaultFormat)] {
		errs = append(errs, errors.New("export format must be csv or xlsx"))
	}

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server address is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{"console": true, "json": true}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys match the long flag names of the CLI.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["api-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.API.Timeout = timeout
	}
	if minFetch, ok := flags["min-fetch"].(int); ok && minFetch > 0 {
		c.Fetch.MinFetch = minFetch
	}
	if outputDir, ok := flags["output-dir"].(string); ok && outputDir != "" {
		c.Archive.OutputDirectory = outputDir
	}
	if addr, ok := flags["addr"].(string); ok && addr != "" {
		c.Server.Address = addr
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".spacedash.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Includes values from .env
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
