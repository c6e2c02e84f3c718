package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/store"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	source.Result
	Sources   int
	CacheHits int
	Fetched   int
	Offline   int // sources served from the cache after a failed fetch
}

// ProgressFunc is called during loading to report progress.
// current is the number of sources processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadOptions configures Load.
type LoadOptions struct {
	// Cache enables fingerprint-based reuse of parsed records. Nil disables it.
	Cache *store.Cache
	// OfflineFallback serves the last cached copy when a fetch fails.
	OfflineFallback bool
	Progress        ProgressFunc
}

// Load fetches every source with a bounded worker pool and concatenates the
// results in source order. Any failing source fails the whole load.
func Load(ctx context.Context, srcs []source.Source, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Sources: len(srcs)}
	if len(srcs) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(srcs) {
		numWorkers = len(srcs)
	}

	results := make([]*CachedLoadResult, len(srcs))
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, src := range srcs {
		g.Go(func() error {
			var (
				r   *CachedLoadResult
				err error
			)
			if opts.Cache != nil {
				r, err = LoadWithCache(gctx, src, opts.Cache, opts.OfflineFallback)
			} else {
				var res source.Result
				res, err = src.Fetch(gctx)
				r = &CachedLoadResult{Result: res}
			}
			if err != nil {
				return fmt.Errorf("loading %s: %w", src.Key(), err)
			}
			results[i] = r
			n := processed.Add(1)
			if opts.Progress != nil {
				opts.Progress(int(n), len(srcs))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range results {
		result.Records = append(result.Records, r.Records...)
		result.Rows += r.Rows
		result.Skipped += r.Skipped
		result.Warnings += r.Warnings
		for _, s := range r.Sellers {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				result.Sellers = append(result.Sellers, s)
			}
		}
		switch {
		case r.Offline:
			result.Offline++
		case r.CacheHit:
			result.CacheHits++
		default:
			result.Fetched++
		}
	}
	return result, nil
}

// Pipeline adapts Load to the source.Source interface so a set of sources can
// be handed to dashboard.State.Reload as one.
type Pipeline struct {
	Sources []source.Source
	Options LoadOptions

	last atomic.Pointer[LoadResult]
}

// New returns a Pipeline over srcs.
func New(srcs []source.Source, opts LoadOptions) *Pipeline {
	return &Pipeline{Sources: srcs, Options: opts}
}

// Key joins the keys of all sources.
func (p *Pipeline) Key() string {
	keys := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		keys[i] = s.Key()
	}
	return strings.Join(keys, ",")
}

// Fetch runs Load and returns the merged records.
func (p *Pipeline) Fetch(ctx context.Context) (source.Result, error) {
	r, err := Load(ctx, p.Sources, p.Options)
	if err != nil {
		return source.Result{}, err
	}
	p.last.Store(r)
	return r.Result, nil
}

// LastLoad returns the stats of the most recent successful Fetch, or nil.
func (p *Pipeline) LastLoad() *LoadResult {
	return p.last.Load()
}
