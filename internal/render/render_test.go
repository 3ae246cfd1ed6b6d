package render

import (
	"strings"
	"testing"

	"syntest/internal/analyzer"
	"syntest/internal/fixture"
)

func TestExpectationsEmptyPrintsSuccess(t *testing.T) {
	var b strings.Builder
	Expectations(&b, nil, Opts{Indent: "  "})
	if b.String() != "  Success\n" {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestExpectationsPlain(t *testing.T) {
	var b strings.Builder
	exps := []fixture.Expectation{
		{Kind: "Warning", Message: "Unused variable."},
		{Kind: "TypeError", Message: "Bad call."},
	}
	Expectations(&b, exps, Opts{Indent: "    "})
	want := "    Warning: Unused variable.\n    TypeError: Bad call.\n"
	if b.String() != want {
		t.Fatalf("unexpected output:\nwant: %q\ngot:  %q", want, b.String())
	}
}

func TestDiagnosticsEmptyPrintsSuccess(t *testing.T) {
	var b strings.Builder
	Diagnostics(&b, nil, "", Opts{})
	if b.String() != "Success\n" {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestDiagnosticsIgnoreWarnings(t *testing.T) {
	var b strings.Builder
	diags := []analyzer.Diagnostic{
		{Kind: "Warning", Comment: "w"},
		{Kind: "TypeError", Comment: "e"},
	}
	Diagnostics(&b, diags, "", Opts{IgnoreWarnings: true})
	want := "TypeError: e\n"
	if b.String() != want {
		t.Fatalf("unexpected output:\nwant: %q\ngot:  %q", want, b.String())
	}
}

func TestDiagnosticsLineNumbers(t *testing.T) {
	const header = "pragma test >=0.0;\n"
	source := "a\nb\nc\n"
	diags := []analyzer.Diagnostic{
		{Kind: "TypeError", Comment: "on line two", Offset: uint32(len(header) + 2)},
		{Kind: "Warning", Comment: "nowhere", Offset: 0}, // inside the header
	}
	var b strings.Builder
	Diagnostics(&b, diags, source, Opts{LineNumbers: true, HeaderLen: len(header)})
	want := "(2): TypeError: on line two\nWarning: nowhere\n"
	if b.String() != want {
		t.Fatalf("unexpected output:\nwant: %q\ngot:  %q", want, b.String())
	}
}

func TestDiagnosticsNonePlaceholder(t *testing.T) {
	var b strings.Builder
	Diagnostics(&b, []analyzer.Diagnostic{{Kind: "ParserError"}}, "", Opts{})
	if b.String() != "ParserError: NONE\n" {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestSourceIndentsAndClips(t *testing.T) {
	var b strings.Builder
	Source(&b, "short\nmuch longer line\n", Opts{Indent: "    ", MaxWidth: 8})
	want := "    short\n    much lo…\n"
	if b.String() != want {
		t.Fatalf("unexpected output:\nwant: %q\ngot:  %q", want, b.String())
	}

	b.Reset()
	Source(&b, "", Opts{Indent: "    "})
	if b.String() != "" {
		t.Fatalf("empty source must render nothing, got %q", b.String())
	}
}
