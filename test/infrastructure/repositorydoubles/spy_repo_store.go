//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"time"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// SpyRepoStore implements repositories.RepoStore as a configurable spy.
// Responses are configured per source name. It is safe for concurrent use.
type SpyRepoStore struct {
	mu sync.Mutex

	// --- EnsurePresent ---
	Cloned         map[string]bool // sources reported as freshly cloned
	EnsureErrs     map[string]error
	EnsuredSources []string

	// --- Update ---
	UpdateOutcomes map[string]entities.UpdateOutcome // default: OutcomeUpToDate
	UpdateErrs     map[string]error
	UpdatedSources []string

	// --- LastCommitTime ---
	HeadTime time.Time
	HeadErr  error
}

var _ repositories.RepoStore = (*SpyRepoStore)(nil)

// NewSpyRepoStore creates a SpyRepoStore where every source is present and up to date.
func NewSpyRepoStore() *SpyRepoStore {
	return &SpyRepoStore{
		Cloned:         make(map[string]bool),
		EnsureErrs:     make(map[string]error),
		UpdateOutcomes: make(map[string]entities.UpdateOutcome),
		UpdateErrs:     make(map[string]error),
	}
}

func (s *SpyRepoStore) EnsurePresent(
	_ context.Context,
	source entities.Source,
) (*entities.RepoCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.EnsuredSources = append(s.EnsuredSources, source.Name)
	if err := s.EnsureErrs[source.Name]; err != nil {
		return nil, err
	}
	return &entities.RepoCacheEntry{
		Source: source,
		Path:   source.Path,
		Cloned: s.Cloned[source.Name],
	}, nil
}

func (s *SpyRepoStore) Update(
	_ context.Context,
	entry *entities.RepoCacheEntry,
) (entities.UpdateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entry.Source.Name
	s.UpdatedSources = append(s.UpdatedSources, name)
	if err := s.UpdateErrs[name]; err != nil {
		return entities.OutcomeNotDue, err
	}
	if outcome, ok := s.UpdateOutcomes[name]; ok {
		return outcome, nil
	}
	return entities.OutcomeUpToDate, nil
}

func (s *SpyRepoStore) LastCommitTime(_ *entities.RepoCacheEntry) (time.Time, error) {
	return s.HeadTime, s.HeadErr
}
