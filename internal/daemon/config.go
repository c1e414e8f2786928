// Package daemon manages the EcoSnap daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Node       NodeConfig       `toml:"node"`
	API        APIConfig        `toml:"api"`
	Engagement EngagementConfig `toml:"engagement"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
	Logging    LoggingConfig    `toml:"logging"`
}

// NodeConfig identifies this node.
type NodeConfig struct {
	ID string `toml:"id"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// EngagementConfig controls stats, streak and badge derivation.
type EngagementConfig struct {
	DefaultUser string `toml:"default_user"`
	WindowDays  int    `toml:"window_days"`
	TimeZone    string `toml:"time_zone"` // IANA name; "" means the system zone
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := ecosnapHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8326,
			CORSOrigins: []string{"*"},
		},
		Engagement: EngagementConfig{
			DefaultUser: "local",
			WindowDays:  7,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "ecosnap.log"),
		},
	}
}

// LoadConfig reads config from ~/.ecosnap/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(ecosnapHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.ecosnap/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(ecosnapHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Location resolves the configured aggregation time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Engagement.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Engagement.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time_zone: %w", err)
	}
	return loc, nil
}

// ecosnapHome returns the EcoSnap data directory.
func ecosnapHome() string {
	if env := os.Getenv("ECOSNAP_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ecosnap")
}

// EcosnapHome is exported for use by other packages.
func EcosnapHome() string {
	return ecosnapHome()
}
