package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/tui"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openSessionWith(cfg)
	if errors.Is(err, source.ErrNoSource) {
		// First run: ask for a source before entering the alt screen.
		if cfg, err = runSetupForm(cfg); err != nil {
			return err
		}
		s, err = openSessionWith(cfg)
	}
	if err != nil {
		return err
	}
	defer s.Close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines would corrupt the alt screen.
	closeLog := redirectLog()
	defer closeLog()

	app := tui.NewApp(tui.Options{
		State:  s.state,
		Source: s.src,
		Config: s.cfg,
		OpenSource: func(sc config.SourceConfig) (source.Source, error) {
			srcs, err := source.OpenAll(sc)
			if err != nil {
				return nil, err
			}
			opts := s.src.Options
			opts.Progress = nil
			return pipeline.New(srcs, opts), nil
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLog sends the default logger to a file in the cache dir, or
// discards it when the file can't be opened.
func redirectLog() func() {
	path := filepath.Join(pipeline.CacheDir(), "tui.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err == nil {
		//nolint:gosec // log path is under the user's cache dir
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err == nil {
			log.SetOutput(f)
			log.SetReportTimestamp(true)
			return func() {
				log.SetOutput(os.Stderr)
				_ = f.Close()
			}
		}
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(os.Stderr) }
}
