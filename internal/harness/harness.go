// Package harness times index variants over one key set: each strategy is
// built once, then queried by concurrent readers for a number of loops.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/vecidx"
	"github.com/tamirms/vecidx/dataset"
)

// Baseline names the plain binary search result row.
const Baseline = "binary-search"

var errWrongElement = errors.New("harness: index returned a non-matching element")

// Config controls a run.
type Config struct {
	// Strategies to time. Empty means all of vecidx.Strategies().
	Strategies []vecidx.Strategy

	// Loops is how many times each reader walks the query list. Minimum 1.
	Loops int

	// Readers is the number of concurrent query goroutines. Minimum 1.
	Readers int

	// Shuffle feeds sort-based strategies a shuffled copy of the keys.
	Shuffle bool
	Seed    uint64

	// Options are passed to every index constructor.
	Options []vecidx.Option

	Logger *slog.Logger

	// Metrics, when set, receives every result.
	Metrics *Metrics
}

// Result is one timed strategy.
type Result struct {
	Name    string
	N       int
	Build   time.Duration
	Query   time.Duration
	Lookups int
	Misses  int
}

// NsPerLookup is the mean wall time per Find across all readers.
func (r Result) NsPerLookup() float64 {
	if r.Lookups == 0 {
		return 0
	}
	return float64(r.Query.Nanoseconds()) / float64(r.Lookups)
}

// Run times every configured strategy over keys, which must be sorted, and
// a baseline binary search. P is the offset width of the sort-based
// strategies. Every Find result is checked against the key it was asked
// for, and the miss count of every strategy must match the baseline.
func Run[T vecidx.Lane, P vecidx.Offset](ctx context.Context, keys, queries []T, cfg Config) ([]Result, error) {
	if cfg.Loops < 1 {
		cfg.Loops = 1
	}
	if cfg.Readers < 1 {
		cfg.Readers = 1
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = vecidx.Strategies()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base, err := measure(ctx, cfg, queries, func(q T) (T, bool) {
		pos, ok := slices.BinarySearch(keys, q)
		if !ok {
			return 0, false
		}
		return keys[pos], true
	})
	if err != nil {
		return nil, err
	}
	base.Name, base.N = Baseline, len(keys)
	results := []Result{base}
	cfg.record(base)
	logger.Info("timed", "strategy", base.Name, "n", base.N, "ns_per_lookup", base.NsPerLookup())

	for _, s := range cfg.Strategies {
		coll := keys
		if cfg.Shuffle && !s.RequiresSorted() {
			coll = dataset.Shuffle(keys, cfg.Seed)
		}
		idx, err := vecidx.New[T, P](s, coll, cfg.Options...)
		if err != nil {
			return results, err
		}

		start := time.Now()
		if err := idx.Build(); err != nil {
			return results, fmt.Errorf("%s: build: %w", s, err)
		}
		built := time.Since(start)

		res, err := measure(ctx, cfg, queries, func(q T) (T, bool) {
			pos, ok := idx.Find(q)
			if !ok {
				return 0, false
			}
			return coll[pos], true
		})
		if err != nil {
			return results, fmt.Errorf("%s: %w", s, err)
		}
		res.Name, res.N, res.Build = s.String(), idx.Len(), built
		if res.Misses != base.Misses {
			return results, fmt.Errorf("%s: %d misses, binary search had %d", s, res.Misses, base.Misses)
		}
		results = append(results, res)
		cfg.record(res)
		logger.Info("timed", "strategy", res.Name, "n", res.N,
			"build", res.Build, "ns_per_lookup", res.NsPerLookup())
	}
	return results, nil
}

func (cfg *Config) record(r Result) {
	if cfg.Metrics != nil {
		cfg.Metrics.observe(r)
	}
}

// measure runs the readers. Misses are counted over one pass of one reader.
func measure[T vecidx.Lane](ctx context.Context, cfg Config, queries []T, find func(T) (T, bool)) (Result, error) {
	var lookups, misses atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for r := 0; r < cfg.Readers; r++ {
		g.Go(func() error {
			var n int64
			for loop := 0; loop < cfg.Loops; loop++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				var missed int64
				for _, q := range queries {
					got, ok := find(q)
					if !ok {
						missed++
						continue
					}
					if got != q {
						return fmt.Errorf("query %d: got %d: %w", q, got, errWrongElement)
					}
				}
				n += int64(len(queries))
				if r == 0 && loop == 0 {
					misses.Store(missed)
				}
			}
			lookups.Add(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{
		Query:   time.Since(start),
		Lookups: int(lookups.Load()),
		Misses:  int(misses.Load()),
	}, nil
}
