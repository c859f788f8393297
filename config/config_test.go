package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want default", cfg.HTTP.Addr)
	}
	if cfg.Playback.TransitionDuration != time.Second {
		t.Errorf("TransitionDuration = %v, want 1s", cfg.Playback.TransitionDuration)
	}
	if cfg.Playback.TickInterval != 16*time.Millisecond {
		t.Errorf("TickInterval = %v, want 16ms", cfg.Playback.TickInterval)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
postgres:
  dsn: postgres://app:secret@db:5432/courtplan
http:
  addr: ":9000"
playback:
  transition_duration: 750ms
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Postgres.DSN != "postgres://app:secret@db:5432/courtplan" {
		t.Errorf("DSN = %q", cfg.Postgres.DSN)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("HTTP.Addr = %q, want :9000", cfg.HTTP.Addr)
	}
	if cfg.Playback.TransitionDuration != 750*time.Millisecond {
		t.Errorf("TransitionDuration = %v, want 750ms", cfg.Playback.TransitionDuration)
	}
	// Unset fields fall back rather than zeroing.
	if cfg.Playback.TickInterval != 16*time.Millisecond {
		t.Errorf("TickInterval = %v, want default", cfg.Playback.TickInterval)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@db:5432/override")
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Postgres.DSN != "postgres://env@db:5432/override" {
		t.Errorf("DSN = %q, want env override", cfg.Postgres.DSN)
	}
	if cfg.HTTP.Addr != ":7000" {
		t.Errorf("HTTP.Addr = %q, want env override", cfg.HTTP.Addr)
	}
}
