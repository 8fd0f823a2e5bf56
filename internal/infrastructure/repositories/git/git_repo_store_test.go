//go:build integration

package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/ignore/test/domain/entitybuilders"
)

// newRemote creates a repository holding one commit per call to commit.
func newRemote(t *testing.T) (string, func(name, content string, when time.Time)) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(name, content string, when time.Time) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
		_, addErr := worktree.Add(name)
		require.NoError(t, addErr)
		signature := &object.Signature{Name: "test", Email: "test@example.com", When: when}
		_, commitErr := worktree.Commit("add "+name, &gogit.CommitOptions{Author: signature, Committer: signature})
		require.NoError(t, commitErr)
	}
	return dir, commit
}

func TestRepoStore(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	t.Run("should clone a missing source and read its last commit", func(t *testing.T) {
		t.Parallel()

		// given
		remote, commit := newRemote(t)
		commit("Go.gitignore", "bin/\n", when)
		cachePath := filepath.Join(t.TempDir(), "cache", "owner", "repo")
		source := entitybuilders.NewSourceBuilder().WithURL(remote).WithPath(cachePath).BuildSource()
		store := git.NewRepoStore(git.NewProviderRegistry())

		// when
		entry, err := store.EnsurePresent(context.Background(), source)

		// then
		require.NoError(t, err)
		assert.True(t, entry.Cloned)
		assert.FileExists(t, filepath.Join(cachePath, "Go.gitignore"))
		headTime, headErr := store.LastCommitTime(entry)
		require.NoError(t, headErr)
		assert.True(t, when.Equal(headTime))
	})

	t.Run("should open an existing clone without cloning again", func(t *testing.T) {
		t.Parallel()

		// given
		remote, commit := newRemote(t)
		commit("Go.gitignore", "bin/\n", when)
		cachePath := filepath.Join(t.TempDir(), "repo")
		source := entitybuilders.NewSourceBuilder().WithURL(remote).WithPath(cachePath).BuildSource()
		_, err := git.NewRepoStore(git.NewProviderRegistry()).EnsurePresent(context.Background(), source)
		require.NoError(t, err)

		// when
		entry, err := git.NewRepoStore(git.NewProviderRegistry()).EnsurePresent(context.Background(), source)

		// then
		require.NoError(t, err)
		assert.False(t, entry.Cloned)
	})

	t.Run("should fast-forward to new remote commits", func(t *testing.T) {
		t.Parallel()

		// given
		remote, commit := newRemote(t)
		commit("Go.gitignore", "bin/\n", when)
		cachePath := filepath.Join(t.TempDir(), "repo")
		source := entitybuilders.NewSourceBuilder().WithURL(remote).WithPath(cachePath).BuildSource()
		store := git.NewRepoStore(git.NewProviderRegistry())
		entry, err := store.EnsurePresent(context.Background(), source)
		require.NoError(t, err)
		commit("Rust.gitignore", "target/\n", when.Add(time.Hour))

		// when
		outcome, updateErr := store.Update(context.Background(), entry)
		again, againErr := store.Update(context.Background(), entry)

		// then
		require.NoError(t, updateErr)
		require.NoError(t, againErr)
		assert.Equal(t, entities.OutcomeUpdated, outcome)
		assert.Equal(t, entities.OutcomeUpToDate, again)
		assert.FileExists(t, filepath.Join(cachePath, "Rust.gitignore"))
	})

	t.Run("should refuse a populated path that is not a repository", func(t *testing.T) {
		t.Parallel()

		// given
		cachePath := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(cachePath, "notes.txt"), []byte("keep me"), 0o600))
		source := entitybuilders.NewSourceBuilder().WithPath(cachePath).BuildSource()

		// when
		_, err := git.NewRepoStore(git.NewProviderRegistry()).EnsurePresent(context.Background(), source)

		// then
		var acquisitionErr *entities.AcquisitionError
		require.ErrorAs(t, err, &acquisitionErr)
		assert.ErrorIs(t, err, entities.ErrCorruptRepository)
		assert.FileExists(t, filepath.Join(cachePath, "notes.txt"))
	})

	t.Run("should report a remote that does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		cachePath := filepath.Join(t.TempDir(), "repo")
		source := entitybuilders.NewSourceBuilder().
			WithURL(filepath.Join(t.TempDir(), "missing")).
			WithPath(cachePath).
			BuildSource()

		// when
		_, err := git.NewRepoStore(git.NewProviderRegistry()).EnsurePresent(context.Background(), source)

		// then
		var acquisitionErr *entities.AcquisitionError
		require.ErrorAs(t, err, &acquisitionErr)
	})
}
