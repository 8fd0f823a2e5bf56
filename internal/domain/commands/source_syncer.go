package commands

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// SourceSyncer brings the local clones of a set of sources up to date.
// Sources are synced concurrently; a failing source never aborts the others.
type SourceSyncer struct {
	store          repositories.RepoStore
	trackerFactory repositories.StaleTrackerFactory
	clock          func() time.Time
}

// NewSourceSyncer creates a new SourceSyncer.
func NewSourceSyncer(
	store repositories.RepoStore,
	trackerFactory repositories.StaleTrackerFactory,
) *SourceSyncer {
	return &SourceSyncer{
		store:          store,
		trackerFactory: trackerFactory,
		clock:          time.Now,
	}
}

// Sync acquires every source and updates those that are due. With force set,
// every present repository is updated regardless of its staleness record.
// Results are returned in the order of sources.
func (it *SourceSyncer) Sync(
	ctx context.Context,
	settings *entities.Settings,
	sources []entities.Source,
	force bool,
) []entities.SyncResult {
	tracker := it.trackerFactory(settings.StateFile)
	if err := tracker.Load(); err != nil {
		logger.Warnf("Treating every source as stale: %v", err)
	}

	now := it.clock()
	results := make([]entities.SyncResult, len(sources))

	var group errgroup.Group
	group.SetLimit(max(settings.Concurrency, 1))
	for i, source := range sources {
		group.Go(func() error {
			results[i] = it.syncSource(ctx, settings, tracker, source, force, now)
			return nil
		})
	}
	_ = group.Wait()

	checked := 0
	failed := 0
	for _, result := range results {
		if !result.Succeeded() {
			failed++
			continue
		}
		if result.Outcome.Checked() {
			tracker.RecordChecked(result.Source.Name, now)
			checked++
		}
	}

	if checked > 0 {
		if err := tracker.Save(); err != nil {
			logger.Warnf("Failed to save the staleness record: %v", err)
		}
	}

	logger.Infof("Sync complete: %d sources, %d checked, %d errors", len(sources), checked, failed)
	return results
}

// syncSource runs the acquisition and, when due, the update of one source.
// Only the result slot of the source is written, so it is safe to run in parallel.
func (it *SourceSyncer) syncSource(
	ctx context.Context,
	settings *entities.Settings,
	tracker repositories.StaleTracker,
	source entities.Source,
	force bool,
	now time.Time,
) entities.SyncResult {
	result := entities.SyncResult{Source: source}

	opCtx, cancel := context.WithTimeout(ctx, settings.FetchTimeout)
	defer cancel()

	entry, err := it.store.EnsurePresent(opCtx, source)
	if err != nil {
		logger.Errorf("Failed to acquire source %q: %v", source.Name, err)
		result.Err = err
		return result
	}
	result.Entry = entry

	switch {
	case entry.Cloned:
		result.Outcome = entities.OutcomeCloned
	case force || (source.AutoUpdate && tracker.IsStale(source.Name, now, settings.StaleAfter)):
		outcome, updateErr := it.store.Update(opCtx, entry)
		if updateErr != nil {
			logger.Errorf("Failed to update source %q: %v", source.Name, updateErr)
			result.Err = updateErr
			return result
		}
		result.Outcome = outcome
	default:
		result.Outcome = entities.OutcomeNotDue
	}

	if headTime, headErr := it.store.LastCommitTime(entry); headErr == nil {
		result.HeadTime = headTime
	} else {
		logger.Debugf("Could not read the last commit of source %q: %v", source.Name, headErr)
	}

	logger.Infof("Source %q: %s", source.Name, result.Outcome)
	return result
}

// syncedEntries splits sync results into usable cache entries and failures.
func syncedEntries(results []entities.SyncResult) ([]*entities.RepoCacheEntry, []entities.SourceFailure) {
	entries := make([]*entities.RepoCacheEntry, 0, len(results))
	var failures []entities.SourceFailure
	for _, result := range results {
		if !result.Succeeded() {
			failures = append(failures, entities.SourceFailure{Source: result.Source.Name, Err: result.Err})
			continue
		}
		entries = append(entries, result.Entry)
	}
	return entries, failures
}
