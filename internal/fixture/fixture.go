package fixture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Delimiter separates fixture source from its expectation block.
const Delimiter = "// ----"

// Expectation is one diagnostic the fixture declares it must produce.
// Message keeps embedded newlines collapsed to the literal two-character
// escape `\n`, exactly as written in the file.
type Expectation struct {
	Kind    string
	Message string
}

// Fixture is one parsed test input: raw source plus the ordered
// expectation list. Immutable once loaded; the update path rewrites the
// backing file and requires a fresh Load.
type Fixture struct {
	Source       string
	Expectations []Expectation
}

// Parse splits a fixture stream into source and expectations. Every
// line before the delimiter gets a trailing newline and becomes part of
// Source; a stream without a delimiter is all source and expects zero
// diagnostics, which is not an error. CRLF line endings are normalized
// to LF.
func Parse(r io.Reader) (*Fixture, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fx := &Fixture{}
	var src strings.Builder
	inExpectations := false
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if !inExpectations {
			if strings.HasPrefix(line, Delimiter) {
				inExpectations = true
				continue
			}
			src.WriteString(line)
			src.WriteByte('\n')
			continue
		}
		if exp, ok := parseExpectation(line); ok {
			fx.Expectations = append(fx.Expectations, exp)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	fx.Source = src.String()
	return fx, nil
}

// parseExpectation turns one expectation line into its (kind, message)
// pair. Leading comment slashes and whitespace are stripped first; a
// line that is blank after stripping yields no expectation.
func parseExpectation(line string) (Expectation, bool) {
	rest := strings.TrimLeft(line, "/")
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return Expectation{}, false
	}
	kind, msg, found := strings.Cut(rest, ":")
	if !found {
		return Expectation{Kind: strings.TrimRightFunc(rest, unicode.IsSpace)}, true
	}
	return Expectation{Kind: kind, Message: strings.TrimLeftFunc(msg, unicode.IsSpace)}, true
}

// Load opens and parses the fixture file at path. Failures wrap the
// underlying I/O cause so callers can report why the fixture could not
// be read.
func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
