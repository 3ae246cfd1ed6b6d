// Package session implements the interactive traversal of a fixture
// tree: it runs each fixture, shows failures, and drives the operator
// decision loop (skip / update expectations / edit and retry / quit)
// while keeping run and success counters accurate across retries.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"syntest/internal/fixture"
	"syntest/internal/match"
	"syntest/internal/render"
	"syntest/internal/runner"
)

// Stats counts fixtures over one walk. A fixture that is edited or
// updated and rerun is counted exactly once regardless of how many
// retry cycles it went through.
type Stats struct {
	SuccessCount int
	RunCount     int
}

// Ok reports whether every fixture that was run succeeded.
func (s Stats) Ok() bool { return s.SuccessCount == s.RunCount }

// Action is an operator decision taken after a failed fixture run.
type Action uint8

const (
	ActionSkip Action = iota
	ActionUpdate
	ActionEdit
	ActionQuit
)

// Config carries the operator-facing knobs for one session. Editor is
// an explicit field here rather than process-global state; tests inject
// Keys and RunEditor.
type Config struct {
	Editor    string
	Color     bool
	Out       io.Writer
	Keys      KeyReader
	RunEditor func(editor, path string) error
	// OnResult observes the final disposition of each fixture (rerun
	// attempts are superseded by the outcome that settles the fixture).
	OnResult func(relpath string, outcome runner.Outcome)
	// Filter limits the walk to fixtures it accepts; nil runs everything.
	Filter func(relpath string) bool
}

// Controller walks a fixture tree and drives the recovery loop.
type Controller struct {
	runner *runner.Runner
	cfg    Config

	bold    *color.Color
	success *color.Color
	failure *color.Color
	heading *color.Color
	banner  *color.Color
}

// New builds a Controller around a fixture runner.
func New(run *runner.Runner, cfg Config) *Controller {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.RunEditor == nil {
		cfg.RunEditor = RunEditor
	}
	c := &Controller{
		runner:  run,
		cfg:     cfg,
		bold:    color.New(color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
		banner:  color.New(color.FgRed, color.ReverseVideo),
	}
	for _, cc := range []*color.Color{c.bold, c.success, c.failure, c.heading, c.banner} {
		if cfg.Color {
			cc.EnableColor()
		} else {
			cc.DisableColor()
		}
	}
	return c
}

// Walk traverses basepath/relpath breadth-first, running every fixture
// file and prompting the operator after each failure. The work queue is
// the sole source of truth for what remains: a rerun keeps the current
// entry at the head and retracts its in-flight run count, so the
// fixture is counted once no matter how many retries it takes. Quit
// returns the stats accumulated so far; a partial walk is a valid
// outcome.
func (c *Controller) Walk(basepath, relpath string) (Stats, error) {
	queue := []string{relpath}
	var stats Stats

	for len(queue) > 0 {
		current := queue[0]
		full := filepath.Join(basepath, current)

		info, err := os.Stat(full)
		if err != nil {
			stats.RunCount++
			c.bold.Fprintf(c.cfg.Out, "%s: ", current)
			c.failure.Fprintf(c.cfg.Out, "cannot read test: %v\n", err)
			c.observe(current, runner.LoadFailure)
			queue = queue[1:]
			continue
		}

		if info.IsDir() {
			queue = queue[1:]
			entries, err := os.ReadDir(full)
			if err != nil {
				return stats, fmt.Errorf("read fixture dir %s: %w", full, err)
			}
			for _, e := range entries {
				queue = append(queue, filepath.Join(current, e.Name()))
			}
			continue
		}

		if c.cfg.Filter != nil && !c.cfg.Filter(current) {
			queue = queue[1:]
			continue
		}

		stats.RunCount++
		res := c.runFixture(current, full)

		switch res.Outcome {
		case runner.Success:
			stats.SuccessCount++
			c.observe(current, res.Outcome)
			queue = queue[1:]
		case runner.LoadFailure:
			c.observe(current, res.Outcome)
			queue = queue[1:]
		default: // Mismatch or AnalyzerFailure
			switch c.decide(res.Outcome == runner.AnalyzerFailure) {
			case ActionQuit:
				c.observe(current, res.Outcome)
				return stats, nil
			case ActionSkip:
				c.observe(current, res.Outcome)
				queue = queue[1:]
			case ActionUpdate:
				if err := fixture.WriteExpectations(full, res.Fixture.Source, match.Expectations(res.Diags)); err != nil {
					c.failure.Fprintf(c.cfg.Out, "cannot update test: %v\n", err)
					c.observe(current, res.Outcome)
					queue = queue[1:]
					continue
				}
				fmt.Fprintln(c.cfg.Out, "Re-running test case...")
				stats.RunCount--
			case ActionEdit:
				if err := c.cfg.RunEditor(c.cfg.Editor, full); err != nil {
					fmt.Fprintln(c.cfg.Out, "Error running editor command.")
					fmt.Fprintln(c.cfg.Out)
				}
				fmt.Fprintln(c.cfg.Out, "Re-running test case...")
				stats.RunCount--
			}
		}
	}
	return stats, nil
}

func (c *Controller) observe(relpath string, outcome runner.Outcome) {
	if c.cfg.OnResult != nil {
		c.cfg.OnResult(relpath, outcome)
	}
}

// runFixture runs one fixture and prints its one-line verdict plus, on
// failure, the source listing and the expected/obtained blocks.
func (c *Controller) runFixture(name, full string) runner.Result {
	c.bold.Fprintf(c.cfg.Out, "%s: ", name)
	res := c.runner.Run(full)
	opts := c.runner.Opts()
	opts.Indent = "    "

	switch res.Outcome {
	case runner.Success:
		c.success.Fprintln(c.cfg.Out, "OK")
	case runner.LoadFailure:
		c.failure.Fprintf(c.cfg.Out, "cannot read test: %v\n", res.Err)
	case runner.AnalyzerFailure:
		c.failure.Fprintln(c.cfg.Out, "FAIL")
		c.heading.Fprintln(c.cfg.Out, "  Source:")
		render.Source(c.cfg.Out, res.Fixture.Source, opts)
		fmt.Fprintln(c.cfg.Out)
		fmt.Fprint(c.cfg.Out, "  ")
		c.banner.Fprintln(c.cfg.Out, "Analyzer run failed:")
		failOpts := opts
		failOpts.LineNumbers = true
		failOpts.IgnoreWarnings = true
		render.Diagnostics(c.cfg.Out, res.Diags, res.Fixture.Source, failOpts)
		fmt.Fprintln(c.cfg.Out)
	case runner.Mismatch:
		c.failure.Fprintln(c.cfg.Out, "FAIL")
		c.heading.Fprintln(c.cfg.Out, "  Source:")
		render.Source(c.cfg.Out, res.Fixture.Source, opts)
		fmt.Fprintln(c.cfg.Out)
		c.heading.Fprintln(c.cfg.Out, "  Expected result:")
		fmt.Fprint(c.cfg.Out, res.Expected)
		c.heading.Fprintln(c.cfg.Out, "  Obtained result:")
		fmt.Fprint(c.cfg.Out, res.Actual)
		fmt.Fprintln(c.cfg.Out)
	}
	return res
}

// decide blocks on single keystrokes until the operator picks a valid
// action. Update is never offered after an analyzer failure: the
// fixture may not even be parseable source, so making the crash output
// the new ground truth would be meaningless.
func (c *Controller) decide(analyzerFailed bool) Action {
	if analyzerFailed {
		fmt.Fprint(c.cfg.Out, "(e)dit/(s)kip/(q)uit? ")
	} else {
		fmt.Fprint(c.cfg.Out, "(e)dit/(u)pdate expectations/(s)kip/(q)uit? ")
	}

	for {
		key, err := c.cfg.Keys.ReadKey()
		if err != nil {
			fmt.Fprintln(c.cfg.Out)
			return ActionQuit
		}
		switch key {
		case 's':
			fmt.Fprintln(c.cfg.Out)
			return ActionSkip
		case 'u':
			if analyzerFailed {
				continue
			}
			fmt.Fprintln(c.cfg.Out)
			return ActionUpdate
		case 'e':
			fmt.Fprint(c.cfg.Out, "\n\n")
			return ActionEdit
		case 'q', 0x03: // ctrl-c arrives as a raw byte in raw mode
			fmt.Fprintln(c.cfg.Out)
			return ActionQuit
		}
	}
}
