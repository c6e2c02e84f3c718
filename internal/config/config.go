package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all salesboard configuration.
type Config struct {
	Source     SourceConfig     `toml:"source"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// SourceConfig selects where sale records come from.
type SourceConfig struct {
	// Kind is one of auto, csv, xlsx, xls, url or sheets.
	Kind            string `toml:"kind"`
	Path            string `toml:"path,omitempty"`
	URL             string `toml:"url,omitempty"`
	Sheet           string `toml:"sheet,omitempty"`
	SpreadsheetID   string `toml:"spreadsheet_id,omitempty"`
	Range           string `toml:"range,omitempty"`
	CredentialsFile string `toml:"credentials_file,omitempty"`

	// CredentialsJSON is only ever taken from the environment.
	CredentialsJSON string `toml:"-"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// OfflineFallback serves the last cached copy of a remote source when
	// fetching it fails.
	OfflineFallback bool `toml:"offline_fallback"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds interactive dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DaemonConfig holds HTTP daemon settings.
type DaemonConfig struct {
	Addr              string `toml:"addr"`
	ReloadIntervalSec int    `toml:"reload_interval_sec"`
	EventsBuffer      int    `toml:"events_buffer"`
}

// Source kinds.
const (
	KindAuto   = "auto"
	KindCSV    = "csv"
	KindXLSX   = "xlsx"
	KindXLS    = "xls"
	KindURL    = "url"
	KindSheets = "sheets"
)

// Kinds lists every accepted source kind.
var Kinds = []string{KindAuto, KindCSV, KindXLSX, KindXLS, KindURL, KindSheets}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Kind: KindAuto,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 60,
		},
		Daemon: DaemonConfig{
			Addr:              "127.0.0.1:8787",
			ReloadIntervalSec: 60,
			EventsBuffer:      200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "salesboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "salesboard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SALESBOARD_SOURCE")); v != "" {
		cfg.Source.SetLocation(v)
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"); v != "" {
		cfg.Source.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); v != "" {
		cfg.Source.CredentialsJSON = v
	}
	if v := os.Getenv("GOOGLE_SPREADSHEET_ID"); v != "" {
		cfg.Source.SpreadsheetID = v
		if cfg.Source.Path == "" && cfg.Source.URL == "" {
			cfg.Source.Kind = KindSheets
		}
	}
}

// SetLocation points the source at a path or URL. URLs switch the kind to url;
// a path keeps an explicit file kind and otherwise resets it to auto.
func (s *SourceConfig) SetLocation(loc string) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		s.URL = loc
		s.Path = ""
		s.Kind = KindURL
		return
	}
	s.Path = loc
	s.URL = ""
	switch s.Kind {
	case KindCSV, KindXLSX, KindXLS:
	default:
		s.Kind = KindAuto
	}
}

// Location returns the path, URL or spreadsheet id the source points at.
func (s SourceConfig) Location() string {
	switch {
	case s.Kind == KindSheets:
		return s.SpreadsheetID
	case s.URL != "":
		return s.URL
	default:
		return s.Path
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
