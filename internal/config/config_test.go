package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "wellbot.yaml", `
logging:
  level: debug
storage:
  driver: sqlite
  path: /var/lib/wellbot/wellbot.db
  busy_timeout: 2s
center:
  timezone: Europe/Rome
  max_entries: 48
reminders:
  coalesce_window: 5m
  digest_hour: 7
server:
  enabled: true
  addr: 127.0.0.1:9000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging.level = %q", cfg.Logging.Level)
	}
	if got := cfg.Storagex(); got.Driver != "sqlite" || got.BusyTimeout != 2*time.Second {
		t.Fatalf("storage view = %+v", got)
	}
	if got := cfg.Centerx(); got.Timezone != "Europe/Rome" || got.MaxEntries != 48 {
		t.Fatalf("center view = %+v", got)
	}
	if got := cfg.Reminderx(); got.CoalesceWindow != 5*time.Minute || got.DigestHour != 7 {
		t.Fatalf("reminders view = %+v", got)
	}
	if cfg.ServerAddr() != "127.0.0.1:9000" {
		t.Fatalf("server addr = %q", cfg.ServerAddr())
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "wellbot.yaml", "logging:\n  level: info\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.Reminderx(); got.CoalesceWindow != 10*time.Minute {
		t.Fatalf("default coalesce window = %v, want 10m", got.CoalesceWindow)
	}
	if cfg.ServerAddr() != "127.0.0.1:8407" {
		t.Fatalf("default server addr = %q", cfg.ServerAddr())
	}
	if got := cfg.Logx(); !got.Console {
		t.Fatal("console logging must default to on")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "wellbot.yaml", "remidners:\n  digest_hour: 7\n")
	if _, err := Load(path); err == nil {
		t.Fatal("typo'd section must be rejected")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{name: "digest hour high", body: "reminders:\n  digest_hour: 24\n"},
		{name: "bad window", body: "reminders:\n  coalesce_window: soon\n"},
		{name: "telegram without token", body: "sink:\n  telegram:\n    enabled: true\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "wellbot.yaml", tt.body)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "wellbot.json", `{"reminders":{"digest_hour":8}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Reminders.DigestHour != 8 {
		t.Fatalf("digest_hour = %d", cfg.Reminders.DigestHour)
	}
}
