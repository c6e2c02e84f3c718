package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const loadTimeout = 2 * time.Minute

var (
	flagSource          string
	flagKind            string
	flagSheet           string
	flagSellers         []string
	flagNoCache         bool
	flagOfflineFallback bool
	flagQuiet           bool
	flagVerbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Seller KPI dashboard for vehicle sales spreadsheets",
	Long:  "Load a sales spreadsheet and report seller KPIs: top seller, stock time, goals and repasse.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch {
		case flagVerbose:
			log.SetLevel(log.DebugLevel)
		case flagQuiet:
			log.SetLevel(log.ErrorLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
		if err := config.LoadDotEnv(); err != nil {
			log.Warn("ignoring .env", "err", err)
		}
		return nil
	},
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	log.SetReportTimestamp(false)

	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "Spreadsheet path, directory or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagKind, "kind", "", "Source kind: auto, csv, xlsx, xls, url or sheets")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "Worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().StringArrayVarP(&flagSellers, "seller", "v", nil, "Restrict the selection to a seller (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVar(&flagOfflineFallback, "offline-fallback", false, "Serve the last cached copy when a remote source fails")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Debug logging")
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagKind != "" {
		cfg.Source.Kind = flagKind
	}
	if flagSource != "" {
		if cfg.Source.Kind == config.KindSheets {
			cfg.Source.SpreadsheetID = flagSource
		} else {
			cfg.Source.SetLocation(flagSource)
		}
	}
	if flagSheet != "" {
		cfg.Source.Sheet = flagSheet
	}
	if flagOfflineFallback {
		cfg.General.OfflineFallback = true
	}
	return cfg, nil
}

// session bundles what a command needs to work on loaded data.
type session struct {
	cfg   config.Config
	state *dashboard.State
	src   *pipeline.Pipeline
	cache *store.Cache // nil with --no-cache or when the cache can't be opened
}

func (s *session) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

// openSession wires config, sources, cache and state without loading.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openSessionWith(cfg)
}

func openSessionWith(cfg config.Config) (*session, error) {
	srcs, err := source.OpenAll(cfg.Source)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, goals will not persist\n")
			}
			log.Debug("opening cache", "err", err)
		} else {
			s.cache = cache
		}
	}

	opts := dashboard.Options{Logger: log.Default()}
	if s.cache != nil {
		goals, err := s.cache.LoadGoals()
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("loading goals: %w", err)
		}
		opts.Goals = goals
		opts.Store = s.cache
	}
	s.state = dashboard.NewState(opts)
	s.src = pipeline.New(srcs, pipeline.LoadOptions{
		Cache:           s.cache,
		OfflineFallback: cfg.General.OfflineFallback,
		Progress:        progressFn,
	})
	return s, nil
}

func progressFn(current, total int) {
	if flagQuiet || total < 2 {
		return
	}
	fmt.Fprintf(os.Stderr, "\r  Loading [%d/%d]", current, total)
	if current == total {
		fmt.Fprintln(os.Stderr)
	}
}

// loadSession is the shared data loading path used by the report commands.
func loadSession() (*session, error) {
	s, err := openSession()
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", s.src.Key())
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	start := time.Now()
	if err := s.state.Reload(ctx, s.src); err != nil {
		s.Close()
		return nil, err
	}
	if len(flagSellers) > 0 {
		s.state.Select(flagSellers)
	}

	if !flagQuiet {
		if lr := s.src.LastLoad(); lr != nil {
			fmt.Fprintf(os.Stderr, "  %s records from %d source(s) in %s",
				cli.FormatNumber(int64(len(lr.Records))), lr.Sources, time.Since(start).Round(time.Millisecond))
			if lr.CacheHits > 0 {
				fmt.Fprintf(os.Stderr, " (%d cached)", lr.CacheHits)
			}
			fmt.Fprintln(os.Stderr)
			if lr.Offline > 0 {
				fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("  %d source(s) unreachable, showing cached copy", lr.Offline)))
			}
			if lr.Skipped > 0 || lr.Warnings > 0 {
				fmt.Fprintf(os.Stderr, "  %d rows without seller skipped, %d unparseable numbers read as 0\n", lr.Skipped, lr.Warnings)
			}
		}
	}
	return s, nil
}
