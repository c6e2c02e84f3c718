package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/store"
)

// CachedLoadResult extends a source result with cache metadata.
type CachedLoadResult struct {
	source.Result
	CacheHit bool
	Offline  bool
}

// LoadWithCache returns cached records when src is fingerprintable and its
// fingerprint matches the cache. Otherwise it fetches, saves and returns.
// Sources without a fingerprint always fetch; their last result is kept as an
// offline copy served only when offlineFallback is set and the fetch fails.
func LoadWithCache(ctx context.Context, src source.Source, cache *store.Cache, offlineFallback bool) (*CachedLoadResult, error) {
	key := src.Key()

	var fp source.Fingerprint
	fpr, fingerprinted := src.(source.Fingerprinter)
	if fingerprinted {
		var err error
		fp, err = fpr.Fingerprint()
		if err != nil {
			return nil, err
		}

		tracked, ok, err := cache.GetFingerprint(key)
		if err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if ok && tracked.Fingerprint == fp {
			res, err := cache.LoadRecords(key)
			if err != nil {
				return nil, fmt.Errorf("loading cached records: %w", err)
			}
			log.Debug("cache hit", "source", key, "records", len(res.Records))
			return &CachedLoadResult{Result: res, CacheHit: true}, nil
		}
	}

	res, fetchErr := src.Fetch(ctx)
	if fetchErr != nil {
		if !fingerprinted && offlineFallback {
			if _, ok, err := cache.GetFingerprint(key); err == nil && ok {
				cached, err := cache.LoadRecords(key)
				if err == nil {
					log.Warn("fetch failed, serving cached copy", "source", key, "err", fetchErr)
					return &CachedLoadResult{Result: cached, Offline: true}, nil
				}
			}
		}
		return nil, fetchErr
	}

	if err := cache.SaveRecords(key, fp, res); err != nil {
		log.Warn("caching records", "source", key, "err", err)
	}
	return &CachedLoadResult{Result: res}, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "salesboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "salesboard")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "salesboard.db")
}
