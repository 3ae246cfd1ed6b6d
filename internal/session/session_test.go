package session

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"syntest/internal/analyzer"
	"syntest/internal/render"
	"syntest/internal/runner"
)

// scriptedKeys feeds a fixed keystroke sequence and fails with EOF when
// the script runs out.
type scriptedKeys struct {
	keys []byte
}

func (s *scriptedKeys) ReadKey() (byte, error) {
	if len(s.keys) == 0 {
		return 0, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

// contentAnalyzer reports one warning for every source line containing
// "bad" and fails hard on sources containing "crash".
func contentAnalyzer() analyzer.Analyzer {
	return analyzer.Func{
		Directive: "pragma test >=0.0;\n",
		Run: func(src string, collectAll bool) ([]analyzer.Diagnostic, error) {
			if strings.Contains(src, "crash") {
				return nil, io.ErrUnexpectedEOF
			}
			var diags []analyzer.Diagnostic
			if strings.Contains(src, "bad") {
				diags = append(diags, analyzer.Diagnostic{Kind: "Warning", Comment: "bad stuff"})
			}
			return diags, nil
		},
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	base := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(base, "fixtures", rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return base
}

func newController(t *testing.T, cfg Config) (*Controller, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	cfg.Out = &out
	run := runner.New(contentAnalyzer(), render.Opts{Indent: "    "})
	return New(run, cfg), &out
}

func TestWalkAllPassing(t *testing.T) {
	base := writeTree(t, map[string]string{
		"1.txt": "fine\n",
		"2.txt": "also fine\n",
	})
	ctrl, out := newController(t, Config{Keys: &scriptedKeys{}})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 2 || stats.SuccessCount != 2 {
		t.Fatalf("want 2/2, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
	if !stats.Ok() {
		t.Fatal("stats must report ok")
	}
	if !strings.Contains(out.String(), "OK") {
		t.Fatalf("missing OK verdicts in output:\n%s", out.String())
	}
}

func TestWalkEditRetryCountsFixtureOnce(t *testing.T) {
	base := writeTree(t, map[string]string{
		"1.txt": "fine\n",
		"2.txt": "bad\n",
		"3.txt": "fine\n",
	})
	edited := 0
	ctrl, _ := newController(t, Config{
		Keys: &scriptedKeys{keys: []byte{'e'}},
		RunEditor: func(editor, path string) error {
			edited++
			return os.WriteFile(path, []byte("fine now\n"), 0o644)
		},
	})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if edited != 1 {
		t.Fatalf("editor invoked %d times, want 1", edited)
	}
	if stats.RunCount != 3 || stats.SuccessCount != 3 {
		t.Fatalf("want 3/3 after edit+retry, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
}

func TestWalkQuitFreezesStats(t *testing.T) {
	base := writeTree(t, map[string]string{
		"1.txt": "fine\n",
		"2.txt": "bad\n",
		"3.txt": "fine\n",
	})
	attempted := make(map[string]bool)
	ctrl, _ := newController(t, Config{
		Keys: &scriptedKeys{keys: []byte{'q'}},
		OnResult: func(rel string, outcome runner.Outcome) {
			attempted[rel] = true
		},
	})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 2 || stats.SuccessCount != 1 {
		t.Fatalf("want 1/2 at quit, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
	if attempted[filepath.Join("fixtures", "3.txt")] {
		t.Fatal("fixture after quit must never be attempted")
	}
}

func TestWalkSkipCountsRunNotSuccess(t *testing.T) {
	base := writeTree(t, map[string]string{"1.txt": "bad\n"})
	ctrl, _ := newController(t, Config{Keys: &scriptedKeys{keys: []byte{'s'}}})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 1 || stats.SuccessCount != 0 {
		t.Fatalf("want 0/1 after skip, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
}

func TestWalkUpdateRoundTrip(t *testing.T) {
	base := writeTree(t, map[string]string{"1.txt": "bad\n"})
	ctrl, out := newController(t, Config{Keys: &scriptedKeys{keys: []byte{'u'}}})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// The rewritten expectations reproduce the observed diagnostics, so
	// the automatic rerun must pass and the fixture counts once.
	if stats.RunCount != 1 || stats.SuccessCount != 1 {
		t.Fatalf("want 1/1 after update+rerun, got %d/%d", stats.SuccessCount, stats.RunCount)
	}

	data, err := os.ReadFile(filepath.Join(base, "fixtures", "1.txt"))
	if err != nil {
		t.Fatalf("read updated fixture: %v", err)
	}
	want := "bad\n// ----\n// Warning: bad stuff\n"
	if string(data) != want {
		t.Fatalf("unexpected updated fixture:\nwant: %q\ngot:  %q", want, data)
	}
	if !strings.Contains(out.String(), "Re-running test case...") {
		t.Fatalf("missing rerun notice:\n%s", out.String())
	}
}

func TestWalkAnalyzerFailureOffersNoUpdate(t *testing.T) {
	base := writeTree(t, map[string]string{"1.txt": "crash\n"})
	// 'u' must be ignored after an analyzer failure; 's' then advances.
	ctrl, out := newController(t, Config{Keys: &scriptedKeys{keys: []byte{'u', 's'}}})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 1 || stats.SuccessCount != 0 {
		t.Fatalf("want 0/1, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
	if !strings.Contains(out.String(), "(e)dit/(s)kip/(q)uit? ") {
		t.Fatalf("analyzer failure must use the reduced prompt:\n%s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(base, "fixtures", "1.txt"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if string(data) != "crash\n" {
		t.Fatalf("fixture must not be rewritten on analyzer failure: %q", data)
	}
}

func TestWalkBreadthFirstOverSubdirectories(t *testing.T) {
	base := writeTree(t, map[string]string{
		"a.txt":       "fine\n",
		"sub/b.txt":   "fine\n",
		"sub/c/d.txt": "fine\n",
	})
	var order []string
	ctrl, _ := newController(t, Config{
		Keys: &scriptedKeys{},
		OnResult: func(rel string, outcome runner.Outcome) {
			order = append(order, rel)
		},
	})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 3 || stats.SuccessCount != 3 {
		t.Fatalf("want 3/3, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
	want := []string{
		filepath.Join("fixtures", "a.txt"),
		filepath.Join("fixtures", "sub", "b.txt"),
		filepath.Join("fixtures", "sub", "c", "d.txt"),
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("traversal order: want %v, got %v", want, order)
		}
	}
}

func TestWalkFilterSkipsFixturesEntirely(t *testing.T) {
	base := writeTree(t, map[string]string{
		"1.txt": "fine\n",
		"2.txt": "bad\n",
	})
	only1 := filepath.Join("fixtures", "1.txt")
	ctrl, _ := newController(t, Config{
		Keys:   &scriptedKeys{},
		Filter: func(rel string) bool { return rel == only1 },
	})

	stats, err := ctrl.Walk(base, "fixtures")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if stats.RunCount != 1 || stats.SuccessCount != 1 {
		t.Fatalf("filtered walk: want 1/1, got %d/%d", stats.SuccessCount, stats.RunCount)
	}
}
