package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/pipeline"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or drop cached records for the configured source",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached records for the configured source (goals are kept)",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if s.cache == nil {
		return fmt.Errorf("cache unavailable at %s", pipeline.CachePath())
	}

	rows := make([][]string, 0, len(s.src.Sources))
	for _, src := range s.src.Sources {
		key := src.Key()
		n, err := s.cache.RecordCount(key)
		if err != nil {
			return fmt.Errorf("counting records for %s: %w", key, err)
		}
		tracked := "no"
		if t, ok, err := s.cache.GetFingerprint(key); err == nil && ok {
			tracked = t.FetchedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{key, cli.FormatNumber(int64(n)), tracked})
	}

	fmt.Printf("  Cache: %s\n\n", pipeline.CachePath())
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Source", "Records", "Cached at"},
		Rows:    rows,
	}))
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if s.cache == nil {
		return fmt.Errorf("cache unavailable at %s", pipeline.CachePath())
	}

	keys := make([]string, 0, len(s.src.Sources))
	for _, src := range s.src.Sources {
		if err := s.cache.DeleteSource(src.Key()); err != nil {
			return fmt.Errorf("clearing %s: %w", src.Key(), err)
		}
		keys = append(keys, src.Key())
	}
	fmt.Printf("  Dropped cached records for %s\n", strings.Join(keys, ", "))
	return nil
}
