//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"

	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// SpyOutputRepository implements repositories.OutputRepository in memory.
type SpyOutputRepository struct {
	Written    map[string][]string
	WriteErr   error
	WriteCalls int
}

var _ repositories.OutputRepository = (*SpyOutputRepository)(nil)

// NewSpyOutputRepository creates an empty SpyOutputRepository.
func NewSpyOutputRepository() *SpyOutputRepository {
	return &SpyOutputRepository{Written: make(map[string][]string)}
}

func (s *SpyOutputRepository) Write(destination string, lines []string) error {
	s.WriteCalls++
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Written[destination] = append([]string(nil), lines...)
	return nil
}

// Content returns what was written to destination, one line per "\n".
func (s *SpyOutputRepository) Content(destination string) string {
	lines, ok := s.Written[destination]
	if !ok || len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
