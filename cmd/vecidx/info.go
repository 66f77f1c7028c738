package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamirms/vecidx/dataset"
	"github.com/tamirms/vecidx/internal/simd"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [dataset]",
		Short: "Report SIMD capability and, optionally, dataset metadata",
		Long: `The info command prints the active SIMD instruction set, the default pivot
register width, and the lane count k for every key and register width along
with whether a vector kernel serves it. Given a dataset file it also prints
its header.

Set VECIDX_SIMD=generic to force the scalar kernels.

Example:
  vecidx info
  vecidx info keys.vds`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args)
		},
	}
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	printInfo(cmd, "\nSIMD:\n")
	printInfo(cmd, "  ISA: %s", simd.ActiveISA())
	if simd.IsOverridden() {
		printInfo(cmd, " (VECIDX_SIMD)")
	}
	printInfo(cmd, "\n  Native width: %d-bit\n", simd.NativeWidth())
	printInfo(cmd, "  Default pivot width: %d-bit\n\n", simd.PreferredWidth())

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  key\t128-bit\t256-bit\t512-bit")
	for _, size := range []int{1, 2, 4, 8} {
		fmt.Fprintf(tw, "  uint%d", size*8)
		for _, w := range []simd.Width{simd.W128, simd.W256, simd.W512} {
			mode := "scalar"
			if simd.AcceleratedFor(size, w) {
				mode = "vector"
			}
			fmt.Fprintf(tw, "\tk=%d %s", w.Lanes(size), mode)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(args) == 0 {
		return nil
	}
	st, err := dataset.Inspect(args[0])
	if err != nil {
		return fmt.Errorf("failed to inspect dataset: %w", err)
	}
	printInfo(cmd, "\nDataset:\n")
	printInfo(cmd, "  File: %s\n", args[0])
	printInfo(cmd, "  Size: %d bytes\n", st.FileSize)
	printInfo(cmd, "  Keys: %d\n", st.Count)
	printInfo(cmd, "  Key width: %d-bit\n", st.ElemBytes*8)
	printInfo(cmd, "  Compressed: %t\n", st.Compressed)
	return nil
}
