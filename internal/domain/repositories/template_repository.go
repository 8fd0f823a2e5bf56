package repositories

import (
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// TemplateRepository reads templates out of cached working trees.
type TemplateRepository interface {
	// Build walks the working tree of entry and indexes every file accepted
	// by filter. An empty tree yields an empty index; unreadable state is
	// reported as an IndexError.
	Build(entry *entities.RepoCacheEntry, filter entities.TemplateFilter) (entities.TemplateIndex, error)

	// ReadLines returns the lines of a template file.
	ReadLines(path string) ([]string, error)
}

// OutputRepository writes the consolidated file.
type OutputRepository interface {
	// Write replaces the content of destination with the given lines, one per line.
	Write(destination string, lines []string) error
}
