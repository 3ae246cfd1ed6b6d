// Package report persists a snapshot of the last interactive walk so a
// following session can re-run only the fixtures that failed.
package report

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes.
const schemaVersion uint16 = 1

// Entry records the final disposition of one fixture.
type Entry struct {
	Outcome string
	Passed  bool
}

// Snapshot is the persisted result of one walk, keyed by fixture path
// relative to the suite root.
type Snapshot struct {
	Schema   uint16
	When     time.Time
	Fixtures map[string]Entry
}

// NewSnapshot returns an empty snapshot stamped with the current schema.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Schema:   schemaVersion,
		When:     time.Now(),
		Fixtures: make(map[string]Entry),
	}
}

// Seed copies entries from a previous snapshot that this snapshot does
// not know about yet, so fixtures outside a filtered walk keep their
// last recorded disposition instead of degrading to unknown.
func (s *Snapshot) Seed(prev *Snapshot) {
	if prev == nil {
		return
	}
	for rel, e := range prev.Fixtures {
		if _, ok := s.Fixtures[rel]; !ok {
			s.Fixtures[rel] = e
		}
	}
}

// Failed reports whether relpath was attempted and did not pass in this
// snapshot. Unknown fixtures count as failed so new files always run.
func (s *Snapshot) Failed(relpath string) bool {
	e, seen := s.Fixtures[relpath]
	if !seen {
		return true
	}
	return !e.Passed
}

// Cache stores snapshots under the user cache directory.
type Cache struct {
	dir string
}

// Open initializes the cache at $XDG_CACHE_HOME/<app> (falling back to
// ~/.cache/<app>).
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, "lastrun.mp")
}

// Put serializes and writes a snapshot atomically (temp file + rename).
func (c *Cache) Put(s *Snapshot) error {
	if c == nil || s == nil {
		return nil
	}
	data, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.path())
}

// Load reads the last snapshot. A missing or schema-incompatible
// snapshot returns (nil, nil): there is simply nothing to resume from.
func (c *Cache) Load() (*Snapshot, error) {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Schema != schemaVersion {
		return nil, nil
	}
	return &s, nil
}
