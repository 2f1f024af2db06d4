// Package state persists the extraction cursor: a single UTC timestamp
// marking the earliest point not yet extracted. The pipeline owns it
// exclusively; a flock guards against a second process racing the file.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

var ErrLocked = errors.New("state: checkpoint already locked by another process")

type document struct {
	StartFrom time.Time `yaml:"start_from"`
}

type Checkpoint struct {
	startFrom time.Time
	path      string
	lock      *flock.Flock
}

// Open restores the checkpoint from path, or creates one starting at def if
// the file does not exist. It also takes the process-wide lock; a second
// Open on the same path fails with ErrLocked.
func Open(path string, def time.Time) (*Checkpoint, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("state: lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	cp := &Checkpoint{startFrom: def.UTC(), path: path, lock: lock}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cp, nil
	}
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("state: read: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("state: parse %s: %w", path, err)
	}
	if doc.StartFrom.IsZero() {
		_ = lock.Unlock()
		return nil, fmt.Errorf("state: %s has no start_from", path)
	}

	cp.startFrom = doc.StartFrom.UTC()
	return cp, nil
}

// StartFrom returns the earliest point not yet extracted.
func (c *Checkpoint) StartFrom() time.Time {
	return c.startFrom
}

// Advance moves the cursor to t and persists it before returning. The cursor
// never moves backwards: an earlier t is a caller bug and is rejected so a
// resumption gap cannot be written to disk.
func (c *Checkpoint) Advance(t time.Time) error {
	t = t.UTC()
	if t.Before(c.startFrom) {
		return fmt.Errorf("state: advance to %s would move checkpoint backwards from %s",
			t.Format(time.RFC3339), c.startFrom.Format(time.RFC3339))
	}
	prev := c.startFrom
	c.startFrom = t
	if err := c.persist(); err != nil {
		c.startFrom = prev
		return err
	}
	return nil
}

// persist writes the document atomically: temp file in the same directory,
// then rename, so a crash never leaves a partial checkpoint.
func (c *Checkpoint) persist() error {
	b, err := yaml.Marshal(document{StartFrom: c.startFrom})
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("state: rename: %w", err)
	}
	return nil
}

// Close releases the process lock. The checkpoint file itself stays behind
// for the next run.
func (c *Checkpoint) Close() error {
	if c.lock == nil {
		return nil
	}
	return c.lock.Unlock()
}
