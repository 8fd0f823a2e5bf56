//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/ignore/test/infrastructure/repositorydoubles"
)

func newTestSyncer(store *doubles.SpyRepoStore, tracker *doubles.StubStaleTracker, now time.Time) *commands.SourceSyncer {
	syncer := commands.NewSourceSyncer(store, tracker.Factory())
	syncer.SetClock(func() time.Time { return now })
	return syncer
}

func TestSourceSyncerSync(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("should report a clone and record the source as checked", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		store.Cloned["github"] = true
		tracker := doubles.NewStubStaleTracker()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.True(t, results[0].Succeeded())
		assert.Equal(t, entities.OutcomeCloned, results[0].Outcome)
		assert.Empty(t, store.UpdatedSources)
		assert.Equal(t, now, tracker.Records["github"])
		assert.Equal(t, 1, tracker.SaveCalls)
		assert.Equal(t, settings.StateFile, tracker.Path)
	})

	t.Run("should not update a source checked within the staleness window", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.Records["github"] = now.Add(-time.Hour)
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.True(t, results[0].Succeeded())
		assert.Equal(t, entities.OutcomeNotDue, results[0].Outcome)
		assert.Equal(t, []string{"github"}, store.EnsuredSources)
		assert.Empty(t, store.UpdatedSources)
		assert.Equal(t, now.Add(-time.Hour), tracker.Records["github"])
		assert.Zero(t, tracker.SaveCalls)
	})

	t.Run("should update a stale source and refresh its record", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		store.UpdateOutcomes["github"] = entities.OutcomeUpdated
		tracker := doubles.NewStubStaleTracker()
		tracker.Records["github"] = now.Add(-8 * 24 * time.Hour)
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.Equal(t, entities.OutcomeUpdated, results[0].Outcome)
		assert.Equal(t, []string{"github"}, store.UpdatedSources)
		assert.Equal(t, now, tracker.Records["github"])
		assert.Equal(t, 1, tracker.SaveCalls)
	})

	t.Run("should treat a source exactly at the threshold as stale", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.Records["github"] = now.Add(-entities.DefaultStaleAfter)
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.Equal(t, entities.OutcomeUpToDate, results[0].Outcome)
		assert.Equal(t, []string{"github"}, store.UpdatedSources)
	})

	t.Run("should not update a stale source when auto update is disabled", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		source := entitybuilders.NewSourceBuilder().WithAutoUpdate(false).BuildSource()
		settings := entitybuilders.NewSettingsBuilder().WithSources(source).BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.Equal(t, entities.OutcomeNotDue, results[0].Outcome)
		assert.Empty(t, store.UpdatedSources)
	})

	t.Run("should update every present source when forced", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.Records["a"] = now
		tracker.Records["b"] = now
		source := entitybuilders.NewSourceBuilder().WithName("b").WithAutoUpdate(false).BuildSource()
		settings := entitybuilders.NewSettingsBuilder().
			WithSourceNames("a").
			BuildSettings()
		settings.Sources = append(settings.Sources, source)
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, true)

		// then
		require.Len(t, results, 2)
		assert.ElementsMatch(t, []string{"a", "b"}, store.UpdatedSources)
		assert.Equal(t, 1, tracker.SaveCalls)
	})

	t.Run("should keep syncing the other sources when one fails", func(t *testing.T) {
		t.Parallel()

		// given
		acquireErr := &entities.AcquisitionError{Source: "a", Err: entities.ErrRemoteNotFound}
		store := doubles.NewSpyRepoStore()
		store.EnsureErrs["a"] = acquireErr
		store.UpdateErrs["b"] = &entities.UpdateError{Source: "b", Err: entities.ErrNonFastForward}
		tracker := doubles.NewStubStaleTracker()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("a", "b", "c").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 3)
		assert.Equal(t, "a", results[0].Source.Name)
		assert.False(t, results[0].Succeeded())
		assert.ErrorIs(t, results[0].Err, entities.ErrRemoteNotFound)
		assert.False(t, results[1].Succeeded())
		assert.ErrorIs(t, results[1].Err, entities.ErrNonFastForward)
		assert.True(t, results[2].Succeeded())

		assert.ElementsMatch(t, []string{"a", "b", "c"}, store.EnsuredSources)
		assert.NotContains(t, tracker.Records, "a")
		assert.NotContains(t, tracker.Records, "b")
		assert.Contains(t, tracker.Records, "c")
	})

	t.Run("should treat every source as stale when the record cannot be loaded", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.LoadErr = &entities.StateError{Path: "/cache/state.toml", Err: errors.New("bad toml")}
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.True(t, results[0].Succeeded())
		assert.Equal(t, []string{"github"}, store.UpdatedSources)
		assert.Equal(t, 1, tracker.LoadCalls)
	})

	t.Run("should keep the results usable when the record cannot be saved", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.SaveErr = errors.New("read-only filesystem")
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.True(t, results[0].Succeeded())
		assert.Equal(t, 1, tracker.SaveCalls)
	})

	t.Run("should return results in source order when running sequentially", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		settings := entitybuilders.NewSettingsBuilder().
			WithSourceNames("a", "b", "c").
			WithConcurrency(1).
			BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 3)
		assert.Equal(t, []string{"a", "b", "c"}, store.EnsuredSources)
		for i, name := range []string{"a", "b", "c"} {
			assert.Equal(t, name, results[i].Source.Name)
		}
	})

	t.Run("should carry the last commit time of each source", func(t *testing.T) {
		t.Parallel()

		// given
		headTime := now.Add(-48 * time.Hour)
		store := doubles.NewSpyRepoStore()
		store.HeadTime = headTime
		tracker := doubles.NewStubStaleTracker()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("github").BuildSettings()
		syncer := newTestSyncer(store, tracker, now)

		// when
		results := syncer.Sync(context.Background(), settings, settings.Sources, false)

		// then
		require.Len(t, results, 1)
		assert.Equal(t, headTime, results[0].HeadTime)
	})
}
