package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raysh454/fraudeye/internal/webclient"
)

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables that override file settings.
const (
	EnvAPIURL        = "FRAUDEYE_API_URL"
	EnvDashboardAddr = "FRAUDEYE_DASHBOARD_ADDR"
	EnvStoragePath   = "FRAUDEYE_STORAGE_PATH"
	EnvWebClient     = "FRAUDEYE_WEBCLIENT"
	EnvLogLevel      = "FRAUDEYE_LOG_LEVEL"
)

// Load builds a Config from defaults, then the YAML file at path, then a
// .env file in the working directory, then the process environment.
//
// An empty path means DefaultConfigPath, which may be absent. A non-empty
// path that does not exist yields ErrConfigNotFound.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if err := loadFile(path, cfg); err != nil {
		if !errors.Is(err, ErrConfigNotFound) || explicit {
			return nil, err
		}
	}

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	ApplyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg. lookup is usually
// os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.API.BaseURL = v
	}
	if v, ok := lookup(EnvDashboardAddr); ok && v != "" {
		cfg.Dashboard.Addr = v
	}
	// An empty storage path is meaningful: in-memory storage.
	if v, ok := lookup(EnvStoragePath); ok {
		cfg.Storage.Path = v
	}
	if v, ok := lookup(EnvWebClient); ok && v != "" {
		cfg.WebClient.Client = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the fields other packages would otherwise fail on later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	switch webclient.Client(c.WebClient.Client) {
	case webclient.ClientNetHTTP, webclient.ClientChromedp:
	default:
		return fmt.Errorf("%w: unknown webclient %q", ErrInvalidConfig, c.WebClient.Client)
	}
	return nil
}
