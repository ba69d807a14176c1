// Package store persists successful planning results to disk and lists or
// retrieves past runs (C8). It never calls time.Now() directly: a Clock is
// injected so filename generation stays deterministic and testable.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Clock supplies the current time used to stamp result filenames.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// StoredResult is one persisted planning result as returned by List.
type StoredResult struct {
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
}

// Store persists planning results under Dir, named
// topology_<n>nodes_<YYYYMMDD_HHMMSS>.json.
type Store struct {
	Dir   string
	Clock Clock
}

// New builds a Store rooted at dir, using clock to stamp filenames. A nil
// clock defaults to SystemClock.
func New(dir string, clock Clock) *Store {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Store{Dir: dir, Clock: clock}
}

// Save writes result (already-serialised result JSON) to a new timestamped
// file named after nodeCount, creating Dir if necessary, and returns the
// filename it chose.
func (s *Store) Save(nodeCount int, result []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}
	filename := fmt.Sprintf("topology_%dnodes_%s.json", nodeCount, s.Clock.Now().Format("20060102_150405"))
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, result, 0o644); err != nil {
		return "", fmt.Errorf("writing result file: %w", err)
	}
	return filename, nil
}

// List returns every persisted result, newest filename first.
func (s *Store) List() ([]StoredResult, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	// Order by the timestamp that follows "nodes_" in the filename, newest
	// first; equal timestamps fall back to reverse filename order.
	stamp := func(name string) string {
		if i := strings.LastIndex(name, "nodes_"); i >= 0 {
			return name[i+len("nodes_"):]
		}
		return name
	}
	sort.Slice(names, func(i, j int) bool {
		if si, sj := stamp(names[i]), stamp(names[j]); si != sj {
			return si > sj
		}
		return names[i] > names[j]
	})

	results := make([]StoredResult, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading result file %s: %w", name, err)
		}
		results = append(results, StoredResult{Filename: name, Data: json.RawMessage(data)})
	}
	return results, nil
}

// Get returns one persisted result by filename. It rejects any filename
// containing a path separator or "..", so a caller can pass a raw request
// path variable straight through without risking a traversal read.
func (s *Store) Get(filename string) (json.RawMessage, error) {
	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filename))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
