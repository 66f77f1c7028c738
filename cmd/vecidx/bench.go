package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tamirms/vecidx"
	"github.com/tamirms/vecidx/dataset"
	"github.com/tamirms/vecidx/internal/harness"
)

type benchOptions struct {
	datasetPath string
	elem        int
	count       int
	dist        string
	seed        uint64
	strategy    string
	offset      int
	loops       int
	readers     int
	queries     int
	missRate    float64
	shuffle     bool
	width       int
	cacheLines  int
	validate    bool
	verify      bool
	cpuprofile  string
	metricsOut  string
}

func init() {
	rootCmd.AddCommand(newBenchCmd())
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Build each index variant once and time its lookups",
		Long: `The bench command loads keys from a dataset file, or generates them,
builds each selected index variant once and times concurrent lookups against a
plain binary search baseline. Every lookup result is checked.

Example:
  vecidx bench --dataset keys.vds --strategy all --offset 32
  vecidx bench --elem 16 --count 60000 --strategy permutation,pivot-step2 --readers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.datasetPath, "dataset", "", "Dataset file (overrides --elem, --count and --dist)")
	f.IntVar(&opts.elem, "elem", 32, "Key width in bits when generating: 8, 16, 32 or 64")
	f.IntVar(&opts.count, "count", 1_000_000, "Number of keys when generating")
	f.StringVar(&opts.dist, "dist", "seq", "Distribution when generating: seq, xxh3, xxhash or murmur3")
	f.Uint64Var(&opts.seed, "seed", 1, "Seed for generated keys, queries and shuffling")
	f.StringVar(&opts.strategy, "strategy", "all", "Comma-separated strategies, or all")
	f.IntVar(&opts.offset, "offset", 32, "Offset width in bits for sort-based strategies: 8, 16, 32 or 64")
	f.IntVar(&opts.loops, "loops", 10, "Passes over the query list per reader")
	f.IntVar(&opts.readers, "readers", 1, "Concurrent reader goroutines")
	f.IntVar(&opts.queries, "queries", 100_000, "Number of lookup keys")
	f.Float64Var(&opts.missRate, "miss-rate", 0.1, "Fraction of lookups for absent keys")
	f.BoolVar(&opts.shuffle, "shuffle", false, "Feed sort-based strategies shuffled input")
	f.IntVar(&opts.width, "width", 0, "Pivot register width in bits (0 = CPU default)")
	f.IntVar(&opts.cacheLines, "cache-lines", 16, "Cache lines for the blocked tree's top structure")
	f.BoolVar(&opts.validate, "validate", false, "Enable build-time validation")
	f.BoolVar(&opts.verify, "verify", false, "Verify the dataset checksum before benchmarking")
	f.StringVar(&opts.cpuprofile, "cpuprofile", "", "Write a CPU profile of the run to file")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "Write results in Prometheus text format to file")
	return cmd
}

func runBench(cmd *cobra.Command, opts benchOptions) error {
	elem := opts.elem
	if opts.datasetPath != "" {
		st, err := dataset.Inspect(opts.datasetPath)
		if err != nil {
			return fmt.Errorf("failed to inspect dataset: %w", err)
		}
		elem = st.ElemBytes * 8
	}
	switch elem {
	case 8:
		return benchKeys[uint8](cmd, opts)
	case 16:
		return benchKeys[uint16](cmd, opts)
	case 32:
		return benchKeys[uint32](cmd, opts)
	case 64:
		return benchKeys[uint64](cmd, opts)
	default:
		return fmt.Errorf("unsupported key width %d (use 8, 16, 32 or 64)", elem)
	}
}

func benchKeys[T uint8 | uint16 | uint32 | uint64](cmd *cobra.Command, opts benchOptions) (err error) {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	strategies, err := parseStrategies(opts.strategy)
	if err != nil {
		return err
	}

	keys, closeKeys, err := loadKeys[T](opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeKeys())
	}()
	logger.Debug("keys loaded", "n", len(keys), "source", keySource(opts))

	queries := dataset.Queries(keys, opts.queries, opts.missRate, opts.seed)

	cfg := harness.Config{
		Strategies: strategies,
		Loops:      opts.loops,
		Readers:    opts.readers,
		Shuffle:    opts.shuffle,
		Seed:       opts.seed,
		Logger:     logger,
		Options: []vecidx.Option{
			vecidx.WithCacheLines(opts.cacheLines),
			vecidx.WithLogger(logger),
		},
	}
	if opts.width != 0 {
		cfg.Options = append(cfg.Options, vecidx.WithRegisterWidth(opts.width))
	}
	if opts.validate {
		cfg.Options = append(cfg.Options, vecidx.WithValidation())
	}
	var reg *prometheus.Registry
	if opts.metricsOut != "" {
		reg = prometheus.NewRegistry()
		cfg.Metrics = harness.NewMetrics(reg)
	}

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := runOffset(ctx, opts.offset, keys, queries, cfg)
	if err != nil {
		return err
	}
	printResults(cmd, len(keys), len(queries), opts, results)
	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metricsOut, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// loadKeys opens or generates the key set. The returned close func must run
// after the last use of the keys.
func loadKeys[T uint8 | uint16 | uint32 | uint64](opts benchOptions) ([]T, func() error, error) {
	noop := func() error { return nil }
	if opts.datasetPath == "" {
		dist, err := dataset.ParseDistribution(opts.dist)
		if err != nil {
			return nil, noop, err
		}
		keys, err := dataset.Generate[T](dist, opts.count, opts.seed)
		return keys, noop, err
	}

	ds, err := dataset.Open[T](opts.datasetPath)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open dataset: %w", err)
	}
	if opts.verify {
		if err := ds.Verify(); err != nil {
			return nil, noop, errors.Join(err, ds.Close())
		}
	}
	return ds.Keys(), ds.Close, nil
}

func runOffset[T vecidx.Lane](ctx context.Context, bitsWidth int, keys, queries []T, cfg harness.Config) ([]harness.Result, error) {
	switch bitsWidth {
	case 8:
		return harness.Run[T, uint8](ctx, keys, queries, cfg)
	case 16:
		return harness.Run[T, uint16](ctx, keys, queries, cfg)
	case 32:
		return harness.Run[T, uint32](ctx, keys, queries, cfg)
	case 64:
		return harness.Run[T, uint64](ctx, keys, queries, cfg)
	default:
		return nil, fmt.Errorf("unsupported offset width %d (use 8, 16, 32 or 64)", bitsWidth)
	}
}

func parseStrategies(s string) ([]vecidx.Strategy, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return vecidx.Strategies(), nil
	}
	var out []vecidx.Strategy
	for _, name := range strings.Split(s, ",") {
		st, err := vecidx.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func printResults(cmd *cobra.Command, n, queries int, opts benchOptions, results []harness.Result) {
	printInfo(cmd, "\nKeys: %d  Queries: %d  Loops: %d  Readers: %d  Offset: %d-bit\n\n",
		n, queries, opts.loops, opts.readers, opts.offset)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\tbuild\tns/lookup\tmisses\t")
	for _, r := range results {
		build := "-"
		if r.Name != harness.Baseline {
			build = r.Build.Round(time.Microsecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t\n", r.Name, build, r.NsPerLookup(), r.Misses)
	}
	tw.Flush()

	if rss := getMaxRSS(); rss > 0 {
		printInfo(cmd, "\nPeak RSS: %.1f MB\n", float64(rss)/(1024*1024))
	}
}

func keySource(opts benchOptions) string {
	if opts.datasetPath != "" {
		return opts.datasetPath
	}
	return "generated:" + opts.dist
}
