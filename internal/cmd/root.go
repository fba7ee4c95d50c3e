// Package cmd wires the filefind CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for filefind
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filefind",
		Short: "Concurrent filesystem search by exact file name",
		Long: `Filefind walks one or more directory trees in parallel and prints every
entry whose name matches the given name exactly.

The walk runs as a producer/consumer pipeline: several directory workers
expand the tree while a single consumer filters discovered entries, so large
trees are searched at I/O speed with bounded memory.

Configuration is loaded from .filefind/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewFindCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
