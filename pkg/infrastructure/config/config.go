// Package config loads the application configuration from an optional YAML file, an optional .env file
// and BAKESHOP_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig     `yaml:"app"`
	Storage  StorageConfig `yaml:"storage"`
	HTTP     HTTPConfig    `yaml:"http"`
	Log      LogConfig     `yaml:"log"`
	SeedDemo bool          `yaml:"seed_demo"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a configuration that runs with no file and no environment
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "NastarKu",
			Tagline: "Manajemen UMKM Kue",
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Path:   "data",
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("BAKESHOP_APP_NAME", &c.App.Name)
	str("BAKESHOP_APP_TAGLINE", &c.App.Tagline)
	str("BAKESHOP_STORAGE_DRIVER", &c.Storage.Driver)
	str("BAKESHOP_STORAGE_PATH", &c.Storage.Path)
	str("BAKESHOP_STORAGE_DSN", &c.Storage.DSN)
	str("BAKESHOP_HTTP_ADDR", &c.HTTP.Addr)
	str("BAKESHOP_JWT_SECRET", &c.HTTP.JWTSecret)
	str("BAKESHOP_LOG_LEVEL", &c.Log.Level)
	if v, ok := lookup("BAKESHOP_ALLOWED_ORIGINS"); ok {
		c.HTTP.AllowedOrigins = splitList(v)
	}
	if err := boolean("BAKESHOP_LOG_DEVELOPMENT", &c.Log.Development); err != nil {
		return err
	}
	return boolean("BAKESHOP_SEED_DEMO", &c.SeedDemo)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that the selected storage driver has what it needs
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", DriverFile)
		}
	case DriverMySQL, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
