package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitecorpus.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecorpus",
		Short: "Crawl a website into a JSON text corpus",
		Long: `sitecorpus crawls a single website starting from a seed URL.

It follows links on the same hostname breadth-first, extracts paragraphs,
list items and code blocks from every page, keeps the first page for each
title and writes all sections to <name>.json in the output directory.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
