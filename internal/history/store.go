// Package history persists workflow run results to disk.
//
// Each run is written as one YAML file named after its run ID under the
// history directory. Writes are atomic (temp file + rename) so a crashed
// run never leaves a half-written record behind.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"doc-agent/internal/workflow"
)

// DefaultDir is the default history directory, relative to the working
// directory.
const DefaultDir = ".doc-agent/runs"

// Entry is a summary line for one stored run.
type Entry struct {
	ID           string
	WorkflowName string
	Status       workflow.RunStatus
	StartedAt    time.Time
}

// Store reads and writes run results under a directory.
type Store struct {
	dir string
}

// NewStore creates a [Store] rooted at dir. An empty dir uses [DefaultDir].
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Save writes the run result and returns the path of the stored file.
//
// The history directory is created on demand. The write goes through a
// temp file and a rename so readers never observe partial content.
func (s *Store) Save(res *workflow.RunResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := yaml.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run result: %w", err)
	}

	path := filepath.Join(s.dir, res.ID+".yaml")
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run result: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write run result: %w", err)
	}

	return path, nil
}

// Load reads a stored run result by its run ID.
func (s *Store) Load(id string) (*workflow.RunResult, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read run result: %w", err)
	}

	var res workflow.RunResult
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse run result: %w", err)
	}
	return &res, nil
}

// List returns summaries for all stored runs, newest first.
//
// A missing history directory yields an empty list. Files that fail to
// parse are skipped.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		res, err := s.Load(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			ID:           res.ID,
			WorkflowName: res.WorkflowName,
			Status:       res.Status,
			StartedAt:    res.StartedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartedAt.After(entries[j].StartedAt)
	})
	return entries, nil
}
