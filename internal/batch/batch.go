// Package batch exposes a fixture tree as a hierarchical, non-interactive
// test suite for unattended CI runs. It never prompts and aggregates
// every failure instead of stopping at the first.
package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"syntest/internal/runner"
)

// RunFunc executes one fixture file and reports its result.
type RunFunc func(path string) runner.Result

// Register recursively mounts the fixture tree rooted at
// basepath/relpath onto t. Directories become subtests named after the
// directory, preserving the tree structure; files become leaf cases
// that fail (non-fatally) when the fixture outcome is not Success, with
// the rendered diff embedded in the failure message. Returns the number
// of leaf cases registered.
func Register(t *testing.T, basepath, relpath string, run RunFunc) int {
	t.Helper()
	full := filepath.Join(basepath, relpath)
	info, err := os.Stat(full)
	if err != nil {
		t.Fatalf("stat fixture path %s: %v", full, err)
	}
	if !info.IsDir() {
		registerCase(t, relpath, full, run)
		return 1
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		t.Fatalf("read fixture dir %s: %v", full, err)
	}
	count := 0
	t.Run(filepath.Base(relpath), func(t *testing.T) {
		for _, e := range entries {
			child := filepath.Join(relpath, e.Name())
			if e.IsDir() {
				count += Register(t, basepath, child, run)
				continue
			}
			registerCase(t, child, filepath.Join(basepath, child), run)
			count++
		}
	})
	return count
}

func registerCase(t *testing.T, relpath, full string, run RunFunc) {
	t.Helper()
	name := strings.TrimSuffix(filepath.Base(relpath), filepath.Ext(relpath))
	t.Run(name, func(t *testing.T) {
		res := run(full)
		switch res.Outcome {
		case runner.Success:
		case runner.Mismatch:
			t.Errorf("expectation mismatch:\nExpected result:\n%sObtained result:\n%s",
				res.Expected, res.Actual)
		default:
			t.Errorf("%s: %v", res.Outcome, res.Err)
		}
	})
}
