// Package storage keeps simulation results.
// Supports two backends: file and memory.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"deathrun-power/core/engine"
	"deathrun-power/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Store is the storage interface
type Store interface {
	// Save stores a run result
	Save(ctx context.Context, run *StoredRun) error

	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*StoredRun, error)

	// List lists runs with filters, newest first
	List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error)

	// Delete removes a run
	Delete(ctx context.Context, id string) error
}

// StoredRun is a stored scenario run
type StoredRun struct {
	// ID is the run ID
	ID string `json:"id"`

	// Scenario is the scenario name, used to group runs
	Scenario string `json:"scenario"`

	// Source is the scenario file, if any
	Source string `json:"source,omitempty"`

	// FailedSteps counts steps whose host call failed
	FailedSteps int `json:"failed_steps"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`

	// Result is the full run result
	Result *engine.Result `json:"result"`
}

// NewStoredRun wraps a result for storage
func NewStoredRun(result *engine.Result, source string) *StoredRun {
	return &StoredRun{
		ID:          result.RunID.String(),
		Scenario:    result.Scenario,
		Source:      source,
		FailedSteps: len(result.Failed()),
		Result:      result,
	}
}

// ListFilter filters run listing
type ListFilter struct {
	Scenario   string
	OnlyFailed bool
	Since      time.Time
	Limit      int
}

func (f *ListFilter) match(run *StoredRun) bool {
	if f == nil {
		return true
	}
	if f.Scenario != "" && run.Scenario != f.Scenario {
		return false
	}
	if f.OnlyFailed && run.FailedSteps == 0 {
		return false
	}
	if !f.Since.IsZero() && run.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

func (f *ListFilter) limit(runs []*StoredRun) []*StoredRun {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	if f != nil && f.Limit > 0 && f.Limit < len(runs) {
		runs = runs[:f.Limit]
	}
	return runs
}

func prepare(run *StoredRun) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}

// FileStore keeps one JSON file per run, grouped by scenario
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to create storage directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// dir maps a scenario name onto one directory directly under basePath.
// Separators become underscores; empty, "." and ".." names share "unnamed".
func (s *FileStore) dir(scenario string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, strings.TrimSpace(scenario))
	if strings.Trim(name, ".") == "" {
		name = "unnamed"
	}
	return filepath.Join(s.basePath, name)
}

// Save implements Store
func (s *FileStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(run)
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Internal("failed to marshal run", err)
	}

	dir := s.dir(run.Scenario)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.TypeInternal, "failed to create scenario directory", err)
	}
	if err := os.WriteFile(filepath.Join(dir, run.ID+".json"), data, 0644); err != nil {
		return errors.Internal("failed to write run", err)
	}
	return nil
}

// find locates a run file by ID across scenario directories
func (s *FileStore) find(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Wrap(errors.TypeInput, "invalid run id "+id, err)
	}
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*", id+".json"))
	if err != nil {
		return "", errors.Internal("failed to search storage", err)
	}
	if len(matches) == 0 {
		return "", errors.NotFound("run", id)
	}
	return matches[0], nil
}

// Get implements Store
func (s *FileStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return readRun(path)
}

func readRun(path string) (*StoredRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Internal("failed to read run", err)
	}
	var run StoredRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Parsing("failed to unmarshal run "+path, err)
	}
	return &run, nil
}

// List implements Store. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths, err := filepath.Glob(filepath.Join(s.basePath, "*", "*.json"))
	if err != nil {
		return nil, errors.Internal("failed to search storage", err)
	}

	var runs []*StoredRun
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run, err := readRun(path)
		if err != nil {
			continue
		}
		if filter.match(run) {
			runs = append(runs, run)
		}
	}
	return filter.limit(runs), nil
}

// Delete implements Store
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return errors.Internal("failed to delete run", err)
	}
	return nil
}

// MemoryStore keeps runs in memory
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*StoredRun
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*StoredRun)}
}

// Save implements Store
func (s *MemoryStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepare(run)
	s.runs[run.ID] = run
	return nil
}

// Get implements Store
func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, errors.NotFound("run", id)
	}
	return run, nil
}

// List implements Store
func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []*StoredRun
	for _, run := range s.runs {
		if filter.match(run) {
			runs = append(runs, run)
		}
	}
	return filter.limit(runs), nil
}

// Delete implements Store
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return errors.NotFound("run", id)
	}
	delete(s.runs, id)
	return nil
}

// New creates a store for a backend. path is only used by the file backend.
func New(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendMemory, "":
		return NewMemoryStore(), nil
	}
	return nil, errors.NotSupported("storage backend " + string(backend))
}
