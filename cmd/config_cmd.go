// Package cmd implements the salesboard CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Cache: %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Source]")
	fmt.Printf("    Kind:     %s\n", cfg.Source.Kind)
	if loc := cfg.Source.Location(); loc != "" {
		fmt.Printf("    Location: %s\n", loc)
	} else {
		fmt.Println("    Location: not configured")
	}
	if cfg.Source.Sheet != "" {
		fmt.Printf("    Sheet:    %s\n", cfg.Source.Sheet)
	}
	if cfg.Source.Kind == config.KindSheets {
		if cfg.Source.Range != "" {
			fmt.Printf("    Range:    %s\n", cfg.Source.Range)
		}
		switch {
		case cfg.Source.CredentialsJSON != "":
			fmt.Println("    Credentials: from GOOGLE_SERVICE_ACCOUNT_JSON")
		case cfg.Source.CredentialsFile != "":
			fmt.Printf("    Credentials: %s\n", cfg.Source.CredentialsFile)
		default:
			fmt.Println("    Credentials: application default")
		}
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Offline fallback: %v\n", cfg.General.OfflineFallback)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:         %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Reload interval: %ds\n", cfg.Daemon.ReloadIntervalSec)
	fmt.Printf("    Events buffer:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `salesboard setup` to reconfigure.")
	return nil
}
