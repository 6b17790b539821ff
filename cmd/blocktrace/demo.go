package main

import (
	"github.com/spf13/cobra"

	"github.com/pavanmanishd/blockarena/internal/trace"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the built-in four-block walkthrough",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return replay(cmd, trace.Demo())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
