package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SALESBOARD_SOURCE", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != KindAuto {
		t.Errorf("Source.Kind = %q, want %q", cfg.Source.Kind, KindAuto)
	}
	if cfg.Daemon.Addr == "" {
		t.Error("Daemon.Addr is empty, want default")
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SALESBOARD_SOURCE", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	cfg := DefaultConfig()
	cfg.Source.Kind = KindXLSX
	cfg.Source.Path = "/data/vendas.xlsx"
	cfg.Source.Sheet = "Vendas"
	cfg.Source.CredentialsJSON = "secret"
	cfg.TUI.RefreshIntervalSec = 15

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Source.Path != cfg.Source.Path || got.Source.Sheet != "Vendas" {
		t.Errorf("Source = %+v, want path and sheet preserved", got.Source)
	}
	if got.Source.CredentialsJSON != "" {
		t.Error("CredentialsJSON was written to disk")
	}
	if got.TUI.RefreshIntervalSec != 15 {
		t.Errorf("RefreshIntervalSec = %d, want 15", got.TUI.RefreshIntervalSec)
	}
}

func TestLoad_ParseError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "salesboard"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "salesboard", "config.toml"), []byte("[source\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded on invalid TOML")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantKind string
		wantLoc  string
	}{
		{"url", map[string]string{"SALESBOARD_SOURCE": "https://example.com/v.csv"}, KindURL, "https://example.com/v.csv"},
		{"path", map[string]string{"SALESBOARD_SOURCE": "./vendas.csv"}, KindAuto, "./vendas.csv"},
		{"sheets", map[string]string{"GOOGLE_SPREADSHEET_ID": "abc123"}, KindSheets, "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SALESBOARD_SOURCE", "")
			t.Setenv("GOOGLE_SPREADSHEET_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			ApplyEnv(&cfg)
			if cfg.Source.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", cfg.Source.Kind, tt.wantKind)
			}
			if got := cfg.Source.Location(); got != tt.wantLoc {
				t.Errorf("Location() = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

func TestSetLocation_KeepsExplicitFileKind(t *testing.T) {
	s := SourceConfig{Kind: KindCSV}
	s.SetLocation("/tmp/export.txt")
	if s.Kind != KindCSV {
		t.Errorf("Kind = %q, want csv", s.Kind)
	}
}
