package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HABITUAL_CONFIG", "")
	os.Unsetenv("HABITUAL_CONFIG")
	t.Setenv("HABITUAL_DEBUG", "")
	os.Unsetenv("HABITUAL_DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Config != "~/.config/habitual/habitual.db" {
		t.Errorf("Config = %q, want default path", cfg.Config)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HABITUAL_CONFIG", "/tmp/habits.json")
	t.Setenv("HABITUAL_DEBUG", "true")
	t.Setenv("HABITUAL_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Config != "/tmp/habits.json" {
		t.Errorf("Config = %q, want /tmp/habits.json", cfg.Config)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	t.Setenv("HABITUAL_TIMEZONE", "Not/AZone")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid timezone")
	}
}

func TestResolveStorePrecedence(t *testing.T) {
	cfg := &Config{
		Config:       "/data/habitual.db",
		DBConnection: "postgres://habits@db:5432/habitual",
	}

	got, err := cfg.ResolveStore("/explicit/path.db")
	if err != nil {
		t.Fatalf("ResolveStore() unexpected error: %v", err)
	}
	if got != "/explicit/path.db" {
		t.Errorf("explicit flag should win, got %q", got)
	}

	got, err = cfg.ResolveStore("")
	if err != nil {
		t.Fatalf("ResolveStore() unexpected error: %v", err)
	}
	if got != cfg.DBConnection {
		t.Errorf("env connection should win over file path, got %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/habitual/habitual.db", filepath.Join(home, ".config/habitual/habitual.db")},
		{"/abs/path.db", "/abs/path.db"},
		{"relative.json", "relative.json"},
		{"postgres://u@h/db", "postgres://u@h/db"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	if got := ConfigDir("/data/habitual/habitual.db"); got != "/data/habitual" {
		t.Errorf("ConfigDir() = %q, want /data/habitual", got)
	}
	if got := ConfigDir("postgresql://u@h/db"); got == "" {
		t.Error("ConfigDir() for postgres should not be empty")
	}
}
