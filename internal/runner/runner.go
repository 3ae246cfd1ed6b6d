// Package runner drives a single fixture through its lifecycle:
// load, analyze, match, and render the diff on mismatch.
package runner

import (
	"strings"

	"syntest/internal/analyzer"
	"syntest/internal/fixture"
	"syntest/internal/match"
	"syntest/internal/render"
)

// Outcome classifies one fixture run.
type Outcome uint8

const (
	// Success means the analyzer's diagnostics matched the fixture's
	// expectations exactly.
	Success Outcome = iota
	// Mismatch means the run completed but the diagnostics differ from
	// the expectations.
	Mismatch
	// AnalyzerFailure means the front-end itself failed instead of
	// returning a diagnostic list.
	AnalyzerFailure
	// LoadFailure means the fixture file could not be opened or read.
	LoadFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Mismatch:
		return "mismatch"
	case AnalyzerFailure:
		return "analyzer failure"
	case LoadFailure:
		return "load failure"
	}
	return "unknown"
}

// Result carries everything downstream consumers need to report one
// run: the outcome, the parsed fixture, whatever diagnostics the
// analyzer produced, pre-rendered expected/actual blocks for a
// mismatch, and the causing error for the failure outcomes.
type Result struct {
	Outcome  Outcome
	Fixture  *fixture.Fixture
	Diags    []analyzer.Diagnostic
	Expected string
	Actual   string
	Err      error
}

// Runner runs fixtures against one analyzer with fixed render options.
type Runner struct {
	analyzer analyzer.Analyzer
	opts     render.Opts
}

// New builds a Runner. The render options' HeaderLen is overridden with
// the analyzer's actual header length so offset correction always uses
// the header the analyzer was invoked with.
func New(a analyzer.Analyzer, opts render.Opts) *Runner {
	opts.HeaderLen = len(a.Header())
	return &Runner{analyzer: a, opts: opts}
}

// Opts returns the render options the runner formats results with.
func (r *Runner) Opts() render.Opts {
	return r.opts
}

// Run executes the full lifecycle for the fixture at path. Analysis
// always collects every diagnostic rather than stopping at the first.
func (r *Runner) Run(path string) Result {
	fx, err := fixture.Load(path)
	if err != nil {
		return Result{Outcome: LoadFailure, Err: err}
	}

	diags, err := r.analyzer.Analyze(r.analyzer.Header()+fx.Source, true)
	if err != nil {
		return Result{Outcome: AnalyzerFailure, Fixture: fx, Diags: diags, Err: err}
	}

	if match.Matches(diags, fx.Expectations) {
		return Result{Outcome: Success, Fixture: fx, Diags: diags}
	}

	var expected, actual strings.Builder
	render.Expectations(&expected, fx.Expectations, r.opts)
	render.Diagnostics(&actual, diags, fx.Source, r.opts)
	return Result{
		Outcome:  Mismatch,
		Fixture:  fx,
		Diags:    diags,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}
