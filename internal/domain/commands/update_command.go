package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// Update is the interface for the update command.
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) ([]entities.SyncResult, error)
}

// UpdateOptions holds runtime options for updating the cached sources.
type UpdateOptions struct {
	Sources []string // If set, only these sources are updated
}

// UpdateCommand fetches every selected source, ignoring the staleness record.
type UpdateCommand struct {
	syncer *SourceSyncer
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(syncer *SourceSyncer) *UpdateCommand {
	return &UpdateCommand{syncer: syncer}
}

// Execute updates the selected sources. It fails only when every one of them failed.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) ([]entities.SyncResult, error) {
	sources, err := selectSources(settings.ActiveSources(), opts.Sources)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, entities.ErrNoSources
	}

	results := it.syncer.Sync(ctx, settings, sources, true)
	for _, result := range results {
		if result.Succeeded() {
			return results, nil
		}
	}
	return results, entities.ErrAllSourcesFailed
}

// selectSources keeps the sources named in filter, in configuration order.
func selectSources(active []entities.Source, filter []string) ([]entities.Source, error) {
	if len(filter) == 0 {
		return active, nil
	}

	byName := make(map[string]entities.Source, len(active))
	for _, source := range active {
		byName[source.Name] = source
	}

	wanted := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown or skipped source %q", name)
		}
		wanted[name] = struct{}{}
	}

	selected := make([]entities.Source, 0, len(wanted))
	for _, source := range active {
		if _, ok := wanted[source.Name]; ok {
			selected = append(selected, source)
		}
	}
	return selected, nil
}
