// Package config resolves the harness configuration from flags, an
// optional syntest.toml, and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the optional per-project configuration file.
const FileName = "syntest.toml"

// Config is the resolved harness configuration. Precedence when
// resolving: command-line flags, then syntest.toml, then environment.
type Config struct {
	TestPath     string
	Suite        string
	Editor       string
	AnalyzerCmd  string
	AnalyzerArgs []string
	Header       string
}

type fileAnalyzer struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Header  string   `toml:"header"`
}

type fileConfig struct {
	Editor   string       `toml:"editor"`
	TestPath string       `toml:"testpath"`
	Suite    string       `toml:"suite"`
	Analyzer fileAnalyzer `toml:"analyzer"`
}

// Load reads the configuration file at path. A missing file yields a
// zero Config and no error; a present but malformed file is an error.
func Load(path string) (Config, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return Config{
		TestPath:     fc.TestPath,
		Suite:        fc.Suite,
		Editor:       fc.Editor,
		AnalyzerCmd:  fc.Analyzer.Command,
		AnalyzerArgs: fc.Analyzer.Args,
		Header:       fc.Analyzer.Header,
	}, nil
}

// Merge overlays higher-precedence values onto c and fills remaining
// gaps from the environment ($EDITOR).
func (c Config) Merge(flags Config) Config {
	out := c
	if flags.TestPath != "" {
		out.TestPath = flags.TestPath
	}
	if flags.Suite != "" {
		out.Suite = flags.Suite
	}
	if flags.Editor != "" {
		out.Editor = flags.Editor
	}
	if flags.AnalyzerCmd != "" {
		out.AnalyzerCmd = flags.AnalyzerCmd
		out.AnalyzerArgs = flags.AnalyzerArgs
	}
	if flags.Header != "" {
		out.Header = flags.Header
	}
	if out.Editor == "" {
		out.Editor = os.Getenv("EDITOR")
	}
	return out
}

// DiscoverTestPath probes the usual layout relative to the working
// directory for a base directory that contains the suite subdirectory,
// mirroring test trees that live a few levels above the build
// directory. ok is false when nothing matches.
func DiscoverTestPath(suite string) (base string, ok bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	candidates := []string{
		filepath.Join(cwd, "..", "..", "..", "test"),
		filepath.Join(cwd, "..", "..", "test"),
		filepath.Join(cwd, "..", "test"),
		filepath.Join(cwd, "test"),
		cwd,
	}
	for _, c := range candidates {
		if info, err := os.Stat(filepath.Join(c, suite)); err == nil && info.IsDir() {
			return c, true
		}
	}
	return "", false
}
