//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"
	"time"

	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// StubStaleTracker implements repositories.StaleTracker in memory.
type StubStaleTracker struct {
	mu sync.Mutex

	Records   map[string]time.Time
	LoadErr   error
	SaveErr   error
	LoadCalls int
	SaveCalls int
	Path      string // path handed to the factory
}

var _ repositories.StaleTracker = (*StubStaleTracker)(nil)

// NewStubStaleTracker creates a tracker without any record, so every source is stale.
func NewStubStaleTracker() *StubStaleTracker {
	return &StubStaleTracker{Records: make(map[string]time.Time)}
}

// Factory returns a factory that always hands out this tracker.
func (s *StubStaleTracker) Factory() repositories.StaleTrackerFactory {
	return func(path string) repositories.StaleTracker {
		s.Path = path
		return s
	}
}

func (s *StubStaleTracker) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoadCalls++
	return s.LoadErr
}

func (s *StubStaleTracker) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	return s.SaveErr
}

func (s *StubStaleTracker) IsStale(sourceID string, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	checked, ok := s.LastChecked(sourceID)
	return !ok || now.Sub(checked) >= ttl
}

func (s *StubStaleTracker) RecordChecked(sourceID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records[sourceID] = now
}

func (s *StubStaleTracker) LastChecked(sourceID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	checked, ok := s.Records[sourceID]
	return checked, ok
}
