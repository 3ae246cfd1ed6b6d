package fixture

import (
	"os"
	"strings"
)

// WriteExpectations rewrites the fixture file at path so that its
// expectation block declares exactly exps, keeping source unchanged.
// An empty exps writes just the source and the delimiter line, which
// parses back as "expect zero diagnostics". The write is not
// transactional; the interactive update action accepts that.
func WriteExpectations(path, source string, exps []Expectation) error {
	var b strings.Builder
	b.WriteString(source)
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	for _, e := range exps {
		b.WriteString("// ")
		b.WriteString(e.Kind)
		if e.Message != "" {
			b.WriteString(": ")
			b.WriteString(e.Message)
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
