package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"syntest/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "syntest",
	Short: "Interactively manage golden syntax-test fixtures",
	Long: `syntest walks a fixture tree, replays every fixture against the
configured analyzer and lets the operator repair mismatches in place`,
	RunE: runSession,
}

// init registers the CLI flags used by runSession. Flags that overlay
// syntest.toml values default to empty so an unset flag never shadows
// the file configuration.
func init() {
	rootCmd.Version = version.Version

	rootCmd.Flags().String("testpath", "", "path to test files (auto-discovered when omitted)")
	rootCmd.Flags().String("suite", "", `fixture subdirectory to walk (default "fixtures")`)
	rootCmd.Flags().Bool("no-color", false, "don't use colors")
	rootCmd.Flags().String("editor", "", "editor for opening fixtures (defaults to $EDITOR)")
	rootCmd.Flags().String("analyzer", "", "analyzer executable to run fixtures against")
	rootCmd.Flags().StringArray("analyzer-arg", nil, "extra argument passed to the analyzer (repeatable)")
	rootCmd.Flags().String("header", "", "synthetic header prefixed to fixture source before analysis")
	rootCmd.Flags().Bool("failed-only", false, "only re-run fixtures that failed in the previous session")
}

// main executes the root command. Command execution failure exits with
// status code 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
