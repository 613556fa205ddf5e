// Package ingestion turns source documents into embedded chunks in the
// vector store. Ingestion is an offline phase: it assumes no concurrent
// query traffic against the store being written.
package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// HashRegistry remembers content hashes of previously ingested
// documents so re-running ingestion skips unchanged content. It can be
// persisted as a JSON file between runs.
type HashRegistry struct {
	mu     sync.RWMutex
	path   string
	hashes map[string]bool
}

// NewHashRegistry creates an empty in-memory registry. A non-empty path
// enables persistence via Load and Save.
func NewHashRegistry(path string) *HashRegistry {
	return &HashRegistry{
		path:   path,
		hashes: make(map[string]bool),
	}
}

// Load reads previously saved hashes. A missing file is not an error.
func (r *HashRegistry) Load() error {
	if r.path == "" {
		return nil
	}

	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading hash registry: %w", err)
	}

	var hashes []string
	if err := json.Unmarshal(content, &hashes); err != nil {
		return fmt.Errorf("parsing hash registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range hashes {
		r.hashes[h] = true
	}
	return nil
}

// Save writes the registry to its file. A registry without a path is
// in-memory only and Save is a no-op.
func (r *HashRegistry) Save() error {
	if r.path == "" {
		return nil
	}

	r.mu.RLock()
	hashes := make([]string, 0, len(r.hashes))
	for h := range r.hashes {
		hashes = append(hashes, h)
	}
	r.mu.RUnlock()

	content, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding hash registry: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("saving hash registry: %w", err)
		}
	}
	if err := os.WriteFile(r.path, content, 0o644); err != nil {
		return fmt.Errorf("saving hash registry: %w", err)
	}
	return nil
}

// Seen reports whether a hash was ingested before.
func (r *HashRegistry) Seen(hash string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hashes[hash]
}

// Add records a hash.
func (r *HashRegistry) Add(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[hash] = true
}

// Len returns the number of recorded hashes.
func (r *HashRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hashes)
}
