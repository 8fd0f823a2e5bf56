//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/ignore/test/infrastructure/repositorydoubles"
)

func TestUpdateCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should update every source even when recently checked", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		tracker := doubles.NewStubStaleTracker()
		tracker.Records["a"] = time.Now()
		tracker.Records["b"] = time.Now()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("a", "b").BuildSettings()
		command := commands.NewUpdateCommand(commands.NewSourceSyncer(store, tracker.Factory()))

		// when
		results, err := command.Execute(context.Background(), settings, commands.UpdateOptions{})

		// then
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.ElementsMatch(t, []string{"a", "b"}, store.UpdatedSources)
	})

	t.Run("should update only the selected sources", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("a", "b", "c").BuildSettings()
		command := commands.NewUpdateCommand(commands.NewSourceSyncer(store, doubles.NewStubStaleTracker().Factory()))

		// when
		results, err := command.Execute(context.Background(), settings, commands.UpdateOptions{Sources: []string{"c", "a"}})

		// then
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Source.Name)
		assert.Equal(t, "c", results[1].Source.Name)
	})

	t.Run("should reject an unknown source", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("a").BuildSettings()
		command := commands.NewUpdateCommand(commands.NewSourceSyncer(store, doubles.NewStubStaleTracker().Factory()))

		// when
		_, err := command.Execute(context.Background(), settings, commands.UpdateOptions{Sources: []string{"z"}})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"z"`)
		assert.Empty(t, store.EnsuredSources)
	})

	t.Run("should fail when every source failed", func(t *testing.T) {
		t.Parallel()

		// given
		store := doubles.NewSpyRepoStore()
		store.UpdateErrs["a"] = &entities.UpdateError{Source: "a", Err: entities.ErrNonFastForward}
		settings := entitybuilders.NewSettingsBuilder().WithSourceNames("a").BuildSettings()
		command := commands.NewUpdateCommand(commands.NewSourceSyncer(store, doubles.NewStubStaleTracker().Factory()))

		// when
		results, err := command.Execute(context.Background(), settings, commands.UpdateOptions{})

		// then
		require.ErrorIs(t, err, entities.ErrAllSourcesFailed)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, entities.ErrNonFastForward)
	})
}

func TestSelectSources(t *testing.T) {
	t.Parallel()

	t.Run("should return every active source without a filter", func(t *testing.T) {
		t.Parallel()

		// given
		active := entitybuilders.NewSettingsBuilder().WithSourceNames("a", "b").BuildSettings().Sources

		// when
		selected, err := commands.SelectSources(active, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, active, selected)
	})
}
