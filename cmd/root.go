// Package cmd implements the CLI commands for coursepipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursepipe",
	Short: "coursepipe — convert legacy e-learning packages into structured outputs",
	Long: `coursepipe is a deterministic conversion pipeline for legacy e-learning
packages (SCORM-style zips). It resolves the package's pages, extracts
their activities into a canonical model, and renders JSON, Markdown, or
PDF outputs. Unrecognized module shapes can be taught via conversion rules.

Usage:
  coursepipe convert <package.zip> [flags]
  coursepipe teach --signature <sig> --template <file> [flags]
  coursepipe rules [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
