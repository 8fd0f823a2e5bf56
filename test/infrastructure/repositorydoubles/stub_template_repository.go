//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"path"
	"sync"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// StubTemplateRepository implements repositories.TemplateRepository over
// in-memory templates. Templates are stored at "/<source>/<name>.gitignore".
type StubTemplateRepository struct {
	mu sync.Mutex

	// --- Build ---
	Templates  map[string]map[string]string // source -> name -> path
	BuildErrs  map[string]error
	BuiltNames []string

	// --- ReadLines ---
	Files     map[string][]string // path -> lines
	ReadErrs  map[string]error
	ReadPaths []string
}

var _ repositories.TemplateRepository = (*StubTemplateRepository)(nil)

// NewStubTemplateRepository creates an empty StubTemplateRepository.
func NewStubTemplateRepository() *StubTemplateRepository {
	return &StubTemplateRepository{
		Templates: make(map[string]map[string]string),
		BuildErrs: make(map[string]error),
		Files:     make(map[string][]string),
		ReadErrs:  make(map[string]error),
	}
}

// WithTemplate registers a template of source with the given lines.
func (s *StubTemplateRepository) WithTemplate(source, name string, lines ...string) *StubTemplateRepository {
	p := TemplatePath(source, name)
	if s.Templates[source] == nil {
		s.Templates[source] = make(map[string]string)
	}
	s.Templates[source][name] = p
	s.Files[p] = lines
	return s
}

// TemplatePath returns the path WithTemplate stores a template at.
func TemplatePath(source, name string) string {
	return path.Join("/", source, name+".gitignore")
}

func (s *StubTemplateRepository) Build(
	entry *entities.RepoCacheEntry,
	_ entities.TemplateFilter,
) (entities.TemplateIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entry.Source.Name
	s.BuiltNames = append(s.BuiltNames, name)

	index := entities.NewTemplateIndex(name)
	if err := s.BuildErrs[name]; err != nil {
		return index, &entities.IndexError{Source: name, Path: entry.Path, Err: err}
	}
	for templateName, p := range s.Templates[name] {
		index.Add(templateName, p)
	}
	return index, nil
}

func (s *StubTemplateRepository) ReadLines(p string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReadPaths = append(s.ReadPaths, p)
	if err := s.ReadErrs[p]; err != nil {
		return nil, err
	}
	lines, ok := s.Files[p]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", p)
	}
	return append([]string(nil), lines...), nil
}
