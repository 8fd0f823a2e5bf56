package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) (*ListResult, error)
}

// ListOptions holds runtime options for listing templates.
type ListOptions struct {
	ForceUpdate bool
}

// ListResult is everything the templates can be listed from.
type ListResult struct {
	Index   *entities.CombinedIndex
	Synced  []entities.SyncResult
	Skipped []entities.SourceFailure
}

// ListCommand syncs the sources and returns their combined index.
type ListCommand struct {
	syncer    *SourceSyncer
	templates repositories.TemplateRepository
}

// NewListCommand creates a new ListCommand.
func NewListCommand(syncer *SourceSyncer, templates repositories.TemplateRepository) *ListCommand {
	return &ListCommand{syncer: syncer, templates: templates}
}

// Execute syncs every active source and indexes what could be synced.
func (it *ListCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ListOptions,
) (*ListResult, error) {
	sources := settings.ActiveSources()
	if len(sources) == 0 {
		return nil, entities.ErrNoSources
	}

	result := &ListResult{}
	result.Synced = it.syncer.Sync(ctx, settings, sources, opts.ForceUpdate)

	entries, syncFailures := syncedEntries(result.Synced)
	result.Skipped = append(result.Skipped, syncFailures...)
	if len(entries) == 0 {
		return result, entities.ErrAllSourcesFailed
	}

	index, indexFailures := indexSources(it.templates, entries, settings)
	result.Skipped = append(result.Skipped, indexFailures...)
	if len(indexFailures) == len(entries) {
		return result, entities.ErrAllSourcesFailed
	}
	result.Index = index

	logger.Debugf("Listing %d templates from %d sources", index.Len(), len(index.Sources()))
	return result, nil
}
