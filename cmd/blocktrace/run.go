package main

import (
	"github.com/spf13/cobra"

	"github.com/pavanmanishd/blockarena/internal/trace"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace.yaml>",
		Short: "Replay a trace file",
		Long: `The run command replays a YAML trace and reports each step. It exits
non-zero if any step's pointer or error differs from what the trace expects.

Example:
  blocktrace run fragmentation.yaml
  blocktrace run fragmentation.yaml --index --map
  blocktrace run fragmentation.yaml --pool-size 4096 -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := trace.Load(args[0])
			if err != nil {
				return err
			}
			return replay(cmd, t)
		},
	}
}
