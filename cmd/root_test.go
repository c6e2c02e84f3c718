package cmd

import (
	"testing"
	"time"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/model"
)

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SALESBOARD_SOURCE", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Cleanup(func() { flagSource, flagKind, flagSheet, flagOfflineFallback = "", "", "", false })

	flagSource = "https://example.com/vendas.csv"
	flagSheet = "Junho"
	flagOfflineFallback = true

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Source.Kind != config.KindURL || cfg.Source.URL != flagSource {
		t.Fatalf("source = %+v, want url kind", cfg.Source)
	}
	if cfg.Source.Sheet != "Junho" || !cfg.General.OfflineFallback {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadConfigSheetsKindTakesID(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SALESBOARD_SOURCE", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Cleanup(func() { flagSource, flagKind = "", "" })

	flagKind = config.KindSheets
	flagSource = "1AbCdEf"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Source.SpreadsheetID != "1AbCdEf" || cfg.Source.Path != "" {
		t.Fatalf("source = %+v", cfg.Source)
	}
}

func TestDaemonConfigPrecedence(t *testing.T) {
	t.Cleanup(func() { flagDaemonAddr, flagDaemonInterval, flagDaemonEventsBuffer = "", 0, 0 })

	c := config.DefaultConfig()
	c.Daemon.Addr = ""
	got := daemonConfig(c)
	if got.Addr != config.DefaultConfig().Daemon.Addr {
		t.Fatalf("Addr = %q, want default", got.Addr)
	}
	if got.Interval != 60*time.Second || got.EventsBuffer != 200 {
		t.Fatalf("got %+v", got)
	}

	flagDaemonAddr = "0.0.0.0:9000"
	flagDaemonInterval = 15 * time.Second
	flagDaemonEventsBuffer = 10
	got = daemonConfig(c)
	if got.Addr != "0.0.0.0:9000" || got.Interval != 15*time.Second || got.EventsBuffer != 10 {
		t.Fatalf("flags not applied: %+v", got)
	}
}

func TestSelectionLabel(t *testing.T) {
	all := []string{"Ana", "Bruno", "Carla", "Duda", "Repasse"}
	tests := []struct {
		name      string
		selection []string
		want      string
	}{
		{"all", all, "all sellers"},
		{"none", nil, "no sellers selected"},
		{"few", []string{"Ana", "Bruno"}, "Ana, Bruno"},
		{"many", []string{"Ana", "Bruno", "Carla", "Duda"}, "4 of 5 sellers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := dashboard.Snapshot{Sellers: all, Selection: tt.selection}
			if got := selectionLabel(snap); got != tt.want {
				t.Errorf("selectionLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoalCellWithoutGoal(t *testing.T) {
	if got := goalCell(model.SellerStats{Seller: "Ana", Units: 3}); got == "" {
		t.Fatal("empty goal cell")
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	want := []string{"daemon", "--addr", "x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
