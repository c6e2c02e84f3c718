package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := runSetupForm(cfg); err != nil {
		return err
	}
	fmt.Println("  Run `salesboard setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// runSetupForm asks for the source and theme, saves the config and returns it.
func runSetupForm(cfg config.Config) (config.Config, error) {
	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, errors.New("setup cancelled")
		}
		return cfg, fmt.Errorf("setup: %w", err)
	}

	tui.ApplySetup(&cfg, vals)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	return cfg, nil
}
