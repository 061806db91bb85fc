// Package config holds runtime configuration for the fraudeye binaries.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/raysh454/fraudeye/internal/api"
	"github.com/raysh454/fraudeye/internal/webclient"
)

// AppName names the XDG config and data directories.
const AppName = "fraudeye"

// Config is the top-level configuration shared by the dashboard server and
// the CLI.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Storage   StorageConfig   `yaml:"storage"`
	WebClient WebClientConfig `yaml:"webclient"`
	Log       LogConfig       `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Debug   bool          `yaml:"debug"`
}

type DashboardConfig struct {
	// Addr is the listen address for `fraudeye serve`.
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	// Path is the SQLite database file. Empty means in-memory storage.
	Path string `yaml:"path"`
}

type WebClientConfig struct {
	Client    string        `yaml:"client"`
	Timeout   time.Duration `yaml:"timeout"`
	IdleAfter time.Duration `yaml:"idle_after"`
	Headful   bool          `yaml:"headful"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config populated with local development defaults.
func DefaultConfig() *Config {
	apiCfg := api.DefaultConfig()
	wcCfg := webclient.DefaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL: apiCfg.BaseURL,
			Timeout: apiCfg.Timeout,
		},
		Dashboard: DashboardConfig{
			Addr: ":3000",
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath(),
		},
		WebClient: WebClientConfig{
			Client:    string(wcCfg.Client),
			Timeout:   wcCfg.Timeout,
			IdleAfter: wcCfg.IdleAfter,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir is the per-user configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultStoragePath is the SQLite file under the XDG data directory.
func DefaultStoragePath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// ForAPI converts to the api package's config.
func (c *Config) ForAPI() api.Config {
	return api.Config{
		BaseURL: c.API.BaseURL,
		Timeout: c.API.Timeout,
		Debug:   c.API.Debug,
	}
}

// ForWebClient converts to the webclient package's config.
func (c *Config) ForWebClient() webclient.Config {
	return webclient.Config{
		Client:    webclient.Client(c.WebClient.Client),
		Timeout:   c.WebClient.Timeout,
		IdleAfter: c.WebClient.IdleAfter,
		Headful:   c.WebClient.Headful,
	}
}
