package match

import (
	"strings"

	"fortio.org/safecast"

	"syntest/internal/analyzer"
	"syntest/internal/fixture"
)

// NonePlaceholder stands in for an absent diagnostic comment.
const NonePlaceholder = "NONE"

// Message renders a diagnostic's comment the way fixtures declare it:
// NONE for an absent comment, embedded newlines escaped as the literal
// two characters `\n`.
func Message(d analyzer.Diagnostic) string {
	if d.Comment == "" {
		return NonePlaceholder
	}
	return strings.ReplaceAll(d.Comment, "\n", `\n`)
}

// Matches reports whether the actual diagnostics line up with the
// declared expectations. Lengths must be equal and every (kind,
// message) pair must match at the same position; reordered or partial
// matches fail.
func Matches(actual []analyzer.Diagnostic, expected []fixture.Expectation) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, d := range actual {
		if d.Kind != expected[i].Kind || Message(d) != expected[i].Message {
			return false
		}
	}
	return true
}

// LineNumber maps a byte offset reported against the header-prefixed
// analyzer input back to a 1-based line number in the original fixture
// source. ok is false when the corrected offset falls outside the
// source bounds ("unknown"); out-of-range input never panics.
func LineNumber(source string, offset uint32, headerLen int) (line int, ok bool) {
	off, err := safecast.Conv[int](offset)
	if err != nil {
		return 0, false
	}
	corrected := off - headerLen
	if corrected < 0 || corrected >= len(source) {
		return 0, false
	}
	return 1 + strings.Count(source[:corrected], "\n"), true
}

// Expectations converts actual diagnostics into the expectation lines
// that would make them the new ground truth, preserving order.
func Expectations(diags []analyzer.Diagnostic) []fixture.Expectation {
	out := make([]fixture.Expectation, 0, len(diags))
	for _, d := range diags {
		out = append(out, fixture.Expectation{Kind: d.Kind, Message: Message(d)})
	}
	return out
}
