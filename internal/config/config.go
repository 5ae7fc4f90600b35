// Package config loads the application settings from YAML, an optional
// .env file and AUTOCENTER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Paths     PathsConfig     `yaml:"paths"`
	Shop      ShopConfig      `yaml:"shop"`
	FIPE      FIPEConfig      `yaml:"fipe"`
	Signature SignatureConfig `yaml:"signature"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// PathsConfig locates the database and working directories. Relative
// paths are taken from DataDir.
type PathsConfig struct {
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`
	TempDir  string `yaml:"temp_dir"`
	LogDir   string `yaml:"log_dir"`
}

// ShopConfig is the header printed on service orders.
type ShopConfig struct {
	Name    string `yaml:"name"`
	CNPJ    string `yaml:"cnpj"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
}

type FIPEConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// SignatureConfig sizes the signature pads.
type SignatureConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "Destak Autocenter",
			Version: "1.0.0",
		},
		Paths: PathsConfig{
			DataDir:  ".",
			Database: "oficina.db",
			TempDir:  "temp",
			LogDir:   "logs",
		},
		Shop: ShopConfig{
			Name:    "AUTO REPAIR SHOP",
			CNPJ:    "00.000.000/0001-00",
			Address: "Rua Exemplo, 123 - Cidade - Estado",
			Phone:   "(00) 0000-0000",
		},
		FIPE: FIPEConfig{
			BaseURL: "https://parallelum.com.br/fipe/api/v1",
			Timeout: "15s",
		},
		Signature: SignatureConfig{
			Width:  400,
			Height: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "app.log",
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. A .env file in the working directory, when present, is
// loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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
	if v := os.Getenv("AUTOCENTER_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("AUTOCENTER_DB_PATH"); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv("AUTOCENTER_FIPE_URL"); v != "" {
		c.FIPE.BaseURL = v
	}
	if v := os.Getenv("AUTOCENTER_FIPE_TIMEOUT"); v != "" {
		c.FIPE.Timeout = v
	}
	if v := os.Getenv("AUTOCENTER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) resolve(p string) string {
	if p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.DataDir, p)
}

// DBPath returns the database location.
func (c *Config) DBPath() string { return c.resolve(c.Paths.Database) }

func (c *Config) TempDir() string { return c.resolve(c.Paths.TempDir) }

func (c *Config) LogDir() string { return c.resolve(c.Paths.LogDir) }

// LogFile returns the log file path, or "" when file logging is off.
func (c *Config) LogFile() string {
	if c.Logging.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.LogDir(), c.Logging.File)
}

// GetFIPETimeout returns the FIPE request timeout as a duration.
func (c *Config) GetFIPETimeout() time.Duration {
	d, err := time.ParseDuration(c.FIPE.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// EnsureDirs creates the temp and log directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.TempDir(), c.LogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.Database == "" {
		return fmt.Errorf("database path not configured")
	}
	if c.Signature.Width <= 0 || c.Signature.Height <= 0 {
		return fmt.Errorf("invalid signature size %dx%d", c.Signature.Width, c.Signature.Height)
	}
	if c.FIPE.Timeout != "" {
		if _, err := time.ParseDuration(c.FIPE.Timeout); err != nil {
			return fmt.Errorf("invalid fipe timeout %q: %w", c.FIPE.Timeout, err)
		}
	}
	return nil
}
