package analyzer

// Diagnostic is a single finding reported by a language front-end:
// a kind label ("Warning", "TypeError", ...), an optional free-text
// comment and a byte offset into the analyzed text. The offset points
// into the header-prefixed input the front-end was given, not into the
// bare fixture source.
type Diagnostic struct {
	Kind    string
	Comment string
	Offset  uint32
}

// IsWarning reports whether the diagnostic is a warning rather than an
// error-class finding.
func (d Diagnostic) IsWarning() bool {
	return d.Kind == "Warning"
}

// Analyzer is the front-end capability the harness drives. Header
// returns the synthetic directive that must be prepended to fixture
// source before analysis; all reported offsets are relative to that
// prefixed input. Analyze runs the front-end; when collectAll is set it
// keeps collecting diagnostics past the first error. A non-nil error
// means the front-end itself failed (a crash, not a reported
// diagnostic); the returned list still carries whatever was collected
// before the failure.
type Analyzer interface {
	Header() string
	Analyze(src string, collectAll bool) ([]Diagnostic, error)
}

// Func adapts a closure into an Analyzer with a fixed header directive.
type Func struct {
	Directive string
	Run       func(src string, collectAll bool) ([]Diagnostic, error)
}

func (f Func) Header() string { return f.Directive }

func (f Func) Analyze(src string, collectAll bool) ([]Diagnostic, error) {
	return f.Run(src, collectAll)
}
