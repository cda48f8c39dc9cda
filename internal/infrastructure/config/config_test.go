package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/intellipark-core/internal/gate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "garage-east"
lot:
  total_spots: 6
  delays:
    entry_delay: 2
    lot_scan_delay: 3
    parking_delay: 4
    exit_delay: 2
  scenes:
    "1":
      label: "Red entry"
      type: entry
      entry: ./img/car1.jpeg
      lot_before: ./img/park0.png
      lot_after: ./img/park1.png
      exit: null
    "5":
      label: "Blue exit"
      type: exit
      exit: ./img/car4.png
backend:
  base_url: "http://backend:5001"
  timeout: 3
api:
  port: 9090
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "garage-east" {
		t.Errorf("Site.ID = %q", cfg.Site.ID)
	}
	if cfg.Lot.TotalSpots != 6 {
		t.Errorf("TotalSpots = %d", cfg.Lot.TotalSpots)
	}
	want := gate.Delays{Entry: 2 * time.Second, LotScan: 3 * time.Second, Parking: 4 * time.Second, Exit: 2 * time.Second}
	if got := cfg.Lot.Delays.Gate(); got != want {
		t.Errorf("Delays = %+v, want %+v", got, want)
	}
	if len(cfg.Lot.Scenes) != 2 {
		t.Fatalf("Scenes = %d, want 2", len(cfg.Lot.Scenes))
	}
	red := cfg.Lot.Scenes["1"]
	if red.Exit != nil || red.Entry == nil || *red.Entry != "./img/car1.jpeg" {
		t.Errorf("scene 1 = %+v", red)
	}
	if cfg.GetBackendTimeout() != 3*time.Second {
		t.Errorf("backend timeout = %v", cfg.GetBackendTimeout())
	}
	// Unset values keep their defaults.
	if cfg.GetRefreshInterval() != 15*time.Second {
		t.Errorf("refresh interval = %v", cfg.GetRefreshInterval())
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
}

func TestDelaysDefaultWhenAbsent(t *testing.T) {
	cfg, err := Parse([]byte(`lot: {delays: {parking_delay: 5}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := cfg.Lot.Delays.Gate()
	want := gate.Delays{Entry: time.Second, LotScan: time.Second, Parking: 5 * time.Second, Exit: time.Second}
	if got != want {
		t.Errorf("Delays = %+v, want %+v", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "lot: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INTELLIPARK_BACKEND_URL", "http://override:7000")
	t.Setenv("INTELLIPARK_LOT_TOTAL_SPOTS", "12")
	t.Setenv("INTELLIPARK_MQTT_ENABLED", "true")
	t.Setenv("INTELLIPARK_INFLUXDB_TOKEN", "secret-token")

	cfg, err := Parse([]byte(`backend: {base_url: "http://file:5001"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://override:7000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Lot.TotalSpots != 12 {
		t.Errorf("TotalSpots = %d", cfg.Lot.TotalSpots)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled not overridden")
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q", cfg.InfluxDB.Token)
	}
}

func TestEnvOverrideBadInt(t *testing.T) {
	t.Setenv("INTELLIPARK_API_PORT", "eighty")
	if _, err := Parse(nil); err == nil {
		t.Error("Parse() should reject non-numeric port override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"missing site", func(c *Config) { c.Site.ID = "" }, "site.id"},
		{"negative spots", func(c *Config) { c.Lot.TotalSpots = -1 }, "lot.total_spots"},
		{"bad scene type", func(c *Config) {
			c.Lot.Scenes = map[string]SceneConfig{"9": {Type: "teleport"}}
		}, "lot.scenes.9.type"},
		{"relative backend url", func(c *Config) { c.Backend.BaseURL = "localhost:5001/api" }, "backend.base_url"},
		{"empty backend url", func(c *Config) { c.Backend.BaseURL = "" }, "backend.base_url is required"},
		{"bad qos", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"bad port", func(c *Config) { c.API.Port = 0 }, "api.port"},
		{"influx without url", func(c *Config) { c.InfluxDB.Enabled = true }, "influxdb.url"},
		{"db without path", func(c *Config) { c.Database.Path = "" }, "database.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Site.ID = ""
	cfg.API.Port = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"site.id", "api.port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
