package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"syntest/internal/analyzer"
	"syntest/internal/config"
	"syntest/internal/render"
	"syntest/internal/report"
	"syntest/internal/runner"
	"syntest/internal/session"
)

// runSession executes the interactive walk: it resolves configuration
// from flags, syntest.toml and the environment, runs every fixture
// under the test path, and exits non-zero unless every fixture that was
// run succeeded.
func runSession(cmd *cobra.Command, args []string) error {
	flags, err := flagConfig(cmd)
	if err != nil {
		return err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return fmt.Errorf("failed to get no-color flag: %w", err)
	}
	failedOnly, err := cmd.Flags().GetBool("failed-only")
	if err != nil {
		return fmt.Errorf("failed to get failed-only flag: %w", err)
	}
	colorEnabled := !noColor && isTerminal(os.Stdout)

	fileCfg, err := config.Load(config.FileName)
	if err != nil {
		return err
	}
	cfg := fileCfg.Merge(flags)
	if cfg.Suite == "" {
		cfg.Suite = "fixtures"
	}

	if cfg.AnalyzerCmd == "" {
		return fmt.Errorf("no analyzer configured: use --analyzer or [analyzer] in %s", config.FileName)
	}

	if cfg.TestPath == "" {
		base, ok := config.DiscoverTestPath(cfg.Suite)
		if !ok {
			return fmt.Errorf("test path not found, use the --testpath argument")
		}
		cfg.TestPath = base
	}
	if info, err := os.Stat(filepath.Join(cfg.TestPath, cfg.Suite)); err != nil || !info.IsDir() {
		return fmt.Errorf("test path not found, use the --testpath argument")
	}

	front := &analyzer.Command{
		Path:      cfg.AnalyzerCmd,
		Args:      cfg.AnalyzerArgs,
		Directive: cfg.Header,
	}
	run := runner.New(front, render.Opts{
		Color:  colorEnabled,
		Indent: "    ",
	})

	snapshot := report.NewSnapshot()
	sessionCfg := session.Config{
		Editor: cfg.Editor,
		Color:  colorEnabled,
		Out:    os.Stdout,
		Keys:   session.NewTTYKeys(os.Stdin),
		OnResult: func(relpath string, outcome runner.Outcome) {
			snapshot.Fixtures[relpath] = report.Entry{
				Outcome: outcome.String(),
				Passed:  outcome == runner.Success,
			}
		},
	}

	cache, cacheErr := report.Open("syntest")
	if failedOnly {
		previous, err := loadPreviousReport(cache, cacheErr)
		if err != nil {
			return err
		}
		if previous != nil {
			sessionCfg.Filter = previous.Failed
			// Fixtures skipped by the filter keep their last recorded
			// disposition; the walk overwrites the ones it re-runs.
			snapshot.Seed(previous)
		}
	}

	ctrl := session.New(run, sessionCfg)
	stats, err := ctrl.Walk(cfg.TestPath, cfg.Suite)
	if err != nil {
		return err
	}

	if cacheErr == nil {
		if err := cache.Put(snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save run report: %v\n", err)
		}
	}

	printSummary(stats, colorEnabled)
	if !stats.Ok() {
		os.Exit(1)
	}
	return nil
}

// flagConfig collects the config-shaped command line flags.
func flagConfig(cmd *cobra.Command) (config.Config, error) {
	testPath, err := cmd.Flags().GetString("testpath")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get testpath flag: %w", err)
	}
	suite, err := cmd.Flags().GetString("suite")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get suite flag: %w", err)
	}
	editor, err := cmd.Flags().GetString("editor")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get editor flag: %w", err)
	}
	analyzerCmd, err := cmd.Flags().GetString("analyzer")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get analyzer flag: %w", err)
	}
	analyzerArgs, err := cmd.Flags().GetStringArray("analyzer-arg")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get analyzer-arg flag: %w", err)
	}
	header, err := cmd.Flags().GetString("header")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get header flag: %w", err)
	}
	return config.Config{
		TestPath:     testPath,
		Suite:        suite,
		Editor:       editor,
		AnalyzerCmd:  analyzerCmd,
		AnalyzerArgs: analyzerArgs,
		Header:       header,
	}, nil
}

// loadPreviousReport fetches the last run snapshot for --failed-only.
// With no usable snapshot everything runs and the operator is told why.
func loadPreviousReport(cache *report.Cache, cacheErr error) (*report.Snapshot, error) {
	if cacheErr != nil {
		return nil, fmt.Errorf("failed-only requested but report cache unavailable: %w", cacheErr)
	}
	last, err := cache.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load previous run report: %w", err)
	}
	if last == nil {
		fmt.Fprintln(os.Stderr, "no previous run report found; running everything")
	}
	return last, nil
}

func printSummary(stats session.Stats, colorEnabled bool) {
	ratio := color.New(color.Bold, color.FgRed)
	if stats.Ok() {
		ratio = color.New(color.Bold, color.FgGreen)
	}
	if colorEnabled {
		ratio.EnableColor()
	} else {
		ratio.DisableColor()
	}
	fmt.Println()
	fmt.Print("Summary: ")
	ratio.Printf("%d/%d", stats.SuccessCount, stats.RunCount)
	fmt.Println(" tests successful.")
}
