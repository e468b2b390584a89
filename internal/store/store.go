// Package store implements component B: atomic, per-file-locked YAML
// document storage for the five collection kinds a scope may own. It
// generalizes the teacher's internal/storage.Storage/Transaction interface
// split — here there is no database, so "transaction" collapses to a single
// locked read-modify-write of one YAML file — and reuses the teacher's
// gofrs/flock dependency for the same cross-invocation coordination role.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// timeoutContext bounds a single lock acquisition attempt. The returned
// context's deadline fires the timeout itself, so no caller-side cancel is
// needed beyond the deadline already releasing the timer.
func timeoutContext() context.Context {
	ctx, _ := context.WithTimeout(context.Background(), lockTimeout)
	return ctx
}

// lockTimeout bounds how long a single-process file lock is awaited before
// giving up; cross-process coordination beyond this is the caller's
// responsibility per §5.
const lockTimeout = 5 * time.Second

// withFileLock serializes concurrent mutation of the same document file
// from within this process, following the teacher's "a single-process file
// lock per document file is sufficient" contract (§4.B).
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create scope dir: %w", err)
	}
	lockPath := path + ".lock"
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(timeoutContext(), 25*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring lock %s", lockPath)
	}
	defer func() { _ = fl.Unlock() }()
	return fn()
}

// atomicWriteYAML serializes v and writes it to path using the teacher's
// temp-file-then-rename idiom: write to a sibling temp file in the same
// directory, fsync, then rename over the target so readers never observe a
// partial write.
func atomicWriteYAML(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("fsync temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-controlled, scope-relative
	if err != nil {
		if os.IsNotExist(err) {
			return &rhemaerr.FileNotFoundError{Path: path}
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return &rhemaerr.InvalidYamlError{File: path, Message: err.Error()}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// DocumentPath returns the path of a document file within a scope directory.
func DocumentPath(scopeDir, fileName string) string {
	return filepath.Join(scopeDir, fileName)
}

// Filter expresses the optional predicates list_* operations accept.
type Filter struct {
	Status           string
	Category         string
	Tag              string
	Assignee         string
	Priority         string
	MinConfidence    int
	MinEffectiveness int
}

func matchesTags(tags []string, want string) bool {
	if want == "" {
		return true
	}
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
