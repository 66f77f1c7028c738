package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/vecidx/dataset"
)

type genOptions struct {
	elem  int
	count int
	dist  string
	seed  uint64
	zstd  bool
	level int
}

func init() {
	rootCmd.AddCommand(newGenCmd())
}

func newGenCmd() *cobra.Command {
	var opts genOptions
	cmd := &cobra.Command{
		Use:   "gen <out.vds>",
		Short: "Generate a sorted key dataset file",
		Long: `The gen command writes count sorted, distinct unsigned keys of the given
bit width to a dataset file. Hashed distributions truncate hashes to the key
width and drop collisions, so narrow widths can produce fewer keys.

Example:
  vecidx gen --elem 32 --count 1000000 --dist xxh3 keys.vds
  vecidx gen --elem 16 --count 65536 --dist seq --zstd small.vds`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.elem, "elem", 32, "Key width in bits: 8, 16, 32 or 64")
	cmd.Flags().IntVar(&opts.count, "count", 1_000_000, "Number of keys")
	cmd.Flags().StringVar(&opts.dist, "dist", "seq", "Distribution: seq, xxh3, xxhash or murmur3")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Hash seed")
	cmd.Flags().BoolVar(&opts.zstd, "zstd", false, "Compress the payload with zstd")
	cmd.Flags().IntVar(&opts.level, "level", 0, "zstd level (0 = default)")
	return cmd
}

func runGen(cmd *cobra.Command, path string, opts genOptions) error {
	switch opts.elem {
	case 8:
		return genTyped[uint8](cmd, path, opts)
	case 16:
		return genTyped[uint16](cmd, path, opts)
	case 32:
		return genTyped[uint32](cmd, path, opts)
	case 64:
		return genTyped[uint64](cmd, path, opts)
	default:
		return fmt.Errorf("unsupported key width %d (use 8, 16, 32 or 64)", opts.elem)
	}
}

func genTyped[T uint8 | uint16 | uint32 | uint64](cmd *cobra.Command, path string, opts genOptions) error {
	dist, err := dataset.ParseDistribution(opts.dist)
	if err != nil {
		return err
	}
	keys, err := dataset.Generate[T](dist, opts.count, opts.seed)
	if err != nil {
		return err
	}
	var wopts []dataset.WriteOption
	if opts.zstd {
		wopts = append(wopts, dataset.WithZstd(opts.level))
	}
	if err := dataset.Write(path, keys, wopts...); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	printInfo(cmd, "Wrote %d %d-bit keys (%s) to %s\n", len(keys), opts.elem, dist, path)
	return nil
}
