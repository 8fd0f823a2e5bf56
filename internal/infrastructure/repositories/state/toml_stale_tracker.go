package state

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
	"github.com/rios0rios0/ignore/internal/infrastructure/repositories/filesystem"
)

// stateFile is the persisted layout:
//
//	[sources]
//	github = 2026-10-19T10:00:00Z
type stateFile struct {
	Sources map[string]time.Time `toml:"sources"`
}

// TOMLStaleTracker implements repositories.StaleTracker with a TOML file.
type TOMLStaleTracker struct {
	fs      billy.Filesystem
	path    string
	mu      sync.RWMutex
	records map[string]time.Time
	saveMu  sync.Mutex // serializes writers of the state file
}

var _ repositories.StaleTracker = (*TOMLStaleTracker)(nil)

// NewTOMLStaleTracker creates a tracker persisted at path on the local
// filesystem. Nothing is read until Load is called.
func NewTOMLStaleTracker(path string) *TOMLStaleTracker {
	return NewTOMLStaleTrackerWithFilesystem(osfs.New("/"), path)
}

// NewTOMLStaleTrackerWithFilesystem creates a tracker persisted at path on fs.
func NewTOMLStaleTrackerWithFilesystem(fs billy.Filesystem, path string) *TOMLStaleTracker {
	if absPath, err := filepath.Abs(path); err == nil {
		path = absPath
	}
	return &TOMLStaleTracker{
		fs:      fs,
		path:    path,
		records: make(map[string]time.Time),
	}
}

// NewStaleTrackerFactory returns the factory registered with the container.
func NewStaleTrackerFactory() repositories.StaleTrackerFactory {
	return func(path string) repositories.StaleTracker {
		return NewTOMLStaleTracker(path)
	}
}

// Load replaces the in-memory record with the persisted one.
func (it *TOMLStaleTracker) Load() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.records = make(map[string]time.Time)

	data, err := util.ReadFile(it.fs, it.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("State file %s does not exist, every source is stale", it.path)
		return nil
	}
	if err != nil {
		return &entities.StateError{Path: it.path, Err: err}
	}

	var file stateFile
	if _, decodeErr := toml.Decode(string(data), &file); decodeErr != nil {
		return &entities.StateError{Path: it.path, Err: decodeErr}
	}

	for id, checked := range file.Sources {
		it.records[id] = checked
	}
	logger.Debugf("Loaded %d staleness records from %s", len(it.records), it.path)
	return nil
}

// Save writes the record atomically (temporary file + rename).
func (it *TOMLStaleTracker) Save() error {
	it.saveMu.Lock()
	defer it.saveMu.Unlock()

	it.mu.RLock()
	file := stateFile{Sources: make(map[string]time.Time, len(it.records))}
	for id, checked := range it.records {
		file.Sources[id] = checked.UTC().Truncate(time.Second)
	}
	it.mu.RUnlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := filesystem.WriteFileAtomic(it.fs, it.path, buf.Bytes(), 0o600); err != nil {
		return &entities.StateError{Path: it.path, Err: err}
	}

	logger.Debugf("State file %s updated", it.path)
	return nil
}

// IsStale returns true when no record exists, ttl <= 0, or the record is at least ttl old.
func (it *TOMLStaleTracker) IsStale(sourceID string, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}

	checked, ok := it.LastChecked(sourceID)
	if !ok {
		return true
	}
	return now.Sub(checked) >= ttl
}

// RecordChecked stores now as the last successful check of sourceID.
func (it *TOMLStaleTracker) RecordChecked(sourceID string, now time.Time) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.records[sourceID] = now
}

// LastChecked returns the recorded time for sourceID.
func (it *TOMLStaleTracker) LastChecked(sourceID string) (time.Time, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	checked, ok := it.records[sourceID]
	return checked, ok
}
