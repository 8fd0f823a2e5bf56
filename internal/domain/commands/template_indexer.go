package commands

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// indexSources builds the combined index of the given cache entries. A source
// whose working tree cannot be walked is reported and left out.
func indexSources(
	templates repositories.TemplateRepository,
	entries []*entities.RepoCacheEntry,
	settings *entities.Settings,
) (*entities.CombinedIndex, []entities.SourceFailure) {
	filter := settings.TemplateFilter()

	indices := make([]entities.TemplateIndex, 0, len(entries))
	var failures []entities.SourceFailure
	for _, entry := range entries {
		index, err := templates.Build(entry, filter)
		if err != nil {
			logger.Errorf("Skipping source %q: %v", entry.Source.Name, err)
			failures = append(failures, entities.SourceFailure{Source: entry.Source.Name, Err: err})
			continue
		}
		if len(index.Templates) == 0 {
			logger.Warnf("Source %q does not provide any template", entry.Source.Name)
		}
		indices = append(indices, index)
	}

	combined := entities.MergeIndices(indices, settings.PrecedenceOrder())
	logger.Debugf("Indexed %d template names across %d sources", combined.Len(), len(indices))
	return combined, failures
}
