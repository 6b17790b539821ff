package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/blockarena"
	"github.com/pavanmanishd/blockarena/internal/trace"
)

var (
	// Global flags
	verbose   bool
	poolSize  int
	blockSize int
	useIndex  bool
	showMap   bool
)

var rootCmd = &cobra.Command{
	Use:   "blocktrace",
	Short: "Replay allocation traces against a fixed block pool",
	Long: `blocktrace replays scripted allocation sequences against a fixed-capacity
block pool. Each step's pointer or error is checked against the trace's
expectations, and the final block table is printed for inspection.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step")
	rootCmd.PersistentFlags().
		IntVar(&poolSize, "pool-size", 0, "Override the trace's pool size in bytes")
	rootCmd.PersistentFlags().
		IntVar(&blockSize, "block-size", 0, "Override the trace's block size in bytes")
	rootCmd.PersistentFlags().
		BoolVar(&useIndex, "index", false, "Search free runs with the occupancy index")
	rootCmd.PersistentFlags().BoolVar(&showMap, "map", false, "Print the final block map")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger logs to w at Debug when verbose, otherwise only warnings.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// replay applies the flag overrides to t, runs it and prints the report.
func replay(cmd *cobra.Command, t *trace.Trace) error {
	if poolSize > 0 {
		t.PoolSize = poolSize
	}
	if blockSize > 0 {
		t.BlockSize = blockSize
	}
	if useIndex {
		t.OccupancyIndex = true
	}

	logger := newLogger(cmd.ErrOrStderr())
	p, err := t.NewPool(blockarena.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	report, err := trace.Run(p, t, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReport(out, report)
	if showMap {
		fmt.Fprintln(out)
		if err := p.WriteMap(out); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	printStats(out, p.Stats())

	if !report.OK() {
		return fmt.Errorf("%d of %d steps did not match", report.Mismatches, len(report.Results))
	}
	return nil
}

func printReport(w io.Writer, r *trace.Report) {
	fmt.Fprintf(w, "%-4s %-7s %-8s %-8s %s\n", "STEP", "OP", "NAME", "PTR", "RESULT")
	for _, res := range r.Results {
		ptr := "-"
		if res.Ptr != blockarena.Nil {
			ptr = fmt.Sprint(int(res.Ptr))
		}
		status := "ok"
		if res.Err != nil {
			status = trace.ErrorKind(res.Err)
		}
		if res.Mismatch != "" {
			status += " MISMATCH: " + res.Mismatch
		}
		fmt.Fprintf(w, "%-4d %-7s %-8s %-8s %s\n", res.Index, res.Step.Op, res.Step.Name, ptr, status)
	}
}

func printStats(w io.Writer, s blockarena.Stats) {
	fmt.Fprintf(w, "Blocks in use:    %d/%d (%d bytes)\n", s.BlocksInUse, s.NumBlocks, s.SizeInUse)
	fmt.Fprintf(w, "Live allocations: %d\n", s.Live)
	fmt.Fprintf(w, "Largest free run: %d blocks\n", s.LargestFreeRun)
	fmt.Fprintf(w, "Utilization:      %.1f%%\n", s.Utilization*100)
	fmt.Fprintf(w, "Fragmentation:    %.2f\n", s.Fragmentation)
	fmt.Fprintf(w, "Operations:       allocs=%d frees=%d grows=%d shrinks=%d relocations=%d failures=%d\n",
		s.Allocs, s.Frees, s.Grows, s.Shrinks, s.Relocations, s.Failures)
}
