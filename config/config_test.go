package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("file value should override default, got %q", cfg.Log.Level)
	}
	if cfg.Catalog.FetchTimeout != 15*time.Second {
		t.Errorf("unexpected fetch timeout %v", cfg.Catalog.FetchTimeout)
	}
	catalog, err := cfg.Routine.SlotCatalog()
	if err != nil || catalog.Len() != 7 {
		t.Errorf("expected the default 7 slots, got %v (%v)", catalog, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ROUTINE_SERVER_PORT", "9090")
	t.Setenv("ROUTINE_CATALOG_DATA_URL", "http://catalog.local/connect.json")

	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("env should win over file, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.DataURL != "http://catalog.local/connect.json" {
		t.Errorf("unexpected data_url %q", cfg.Catalog.DataURL)
	}
}

func TestLoad_CustomSlots(t *testing.T) {
	body := `routine:
  slots:
    - value: "8:00 AM-9:30 AM"
      label: "first"
    - value: "9:40 AM-11:10 AM"
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	catalog, err := cfg.Routine.SlotCatalog()
	if err != nil {
		t.Fatalf("SlotCatalog failed: %v", err)
	}
	if catalog.Len() != 2 || catalog.Slot(0).Label != "first" || catalog.Slot(1).Start != 580 {
		t.Errorf("unexpected catalog %+v", catalog.Slots())
	}
}

func TestLoad_RejectsBadSlots(t *testing.T) {
	body := `routine:
  slots:
    - value: "9:30 AM-8:00 AM"
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Error("a reversed slot must fail validation")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Catalog: CatalogConfig{DataURL: "http://x", FetchTimeout: time.Second},
			Routine: RoutineConfig{TermStart: "2025-06-01", TermWeeks: 14, Timezone: "Asia/Dhaka"},
		}
	}

	tests := map[string]func(*Config){
		"port":       func(c *Config) { c.Server.Port = 0 },
		"data url":   func(c *Config) { c.Catalog.DataURL = " " },
		"timeout":    func(c *Config) { c.Catalog.FetchTimeout = 0 },
		"term start": func(c *Config) { c.Routine.TermStart = "June 1st" },
		"timezone":   func(c *Config) { c.Routine.Timezone = "Mars/Olympus" },
		"term weeks": func(c *Config) { c.Routine.TermWeeks = 0 },
		"rate limit": func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true} },
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q", got)
	}
}
