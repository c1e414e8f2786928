package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8326 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8326)
	}
	if cfg.Engagement.WindowDays != 7 {
		t.Errorf("Engagement.WindowDays = %d, want 7", cfg.Engagement.WindowDays)
	}
	if cfg.Engagement.DefaultUser == "" {
		t.Error("Engagement.DefaultUser should have a default")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("ECOSNAP_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8326 {
		t.Errorf("missing file should yield defaults, got port %d", cfg.API.Port)
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ECOSNAP_HOME", home)

	content := "[engagement]\ndefault_user = \"ana\"\nwindow_days = 30\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Engagement.DefaultUser != "ana" {
		t.Errorf("DefaultUser = %q, want ana", cfg.Engagement.DefaultUser)
	}
	if cfg.Engagement.WindowDays != 30 {
		t.Errorf("WindowDays = %d, want 30", cfg.Engagement.WindowDays)
	}
	// Untouched sections keep defaults
	if cfg.API.Port != 8326 {
		t.Errorf("API.Port = %d, want default 8326", cfg.API.Port)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("ECOSNAP_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Node.ID = "node-test"
	cfg.API.Port = 9000

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Node.ID != "node-test" || loaded.API.Port != 9000 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := DefaultConfig()

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc != time.Local {
		t.Errorf("empty time_zone should resolve to the system zone")
	}

	cfg.Engagement.TimeZone = "UTC"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location(UTC) error: %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("location = %s, want UTC", loc)
	}

	cfg.Engagement.TimeZone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("invalid time_zone should error")
	}
}
