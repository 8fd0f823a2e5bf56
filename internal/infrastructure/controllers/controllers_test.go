//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	logger "github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/infrastructure/controllers"
	"github.com/rios0rios0/ignore/test/domain/commanddoubles"
)

const testConfig = `
cache_dir: /tmp/ignore-test/repos
state_file: /tmp/ignore-test/state.toml
sources:
  - name: a
    url: https://example.com/a/templates
  - name: b
    url: https://example.com/b/templates
`

// newCommand builds a Cobra command bound to controller, the way main does.
func newCommand(t *testing.T, controller entities.Controller, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o600))

	bind := controller.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{Use: bind.Use, RunE: controller.Execute, SilenceUsage: true, SilenceErrors: true}
	cmd.PersistentFlags().StringP("config", "c", "", "")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "")
	controller.AddFlags(cmd)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	return cmd, out
}

func TestGenerateController(t *testing.T) {
	t.Parallel()

	t.Run("should pass templates and flags to the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGenerateCommand{ExecuteReport: &entities.Report{
			State:  entities.StateDone,
			Used:   []entities.Template{{Source: "a", Name: "Go"}},
			Output: "out/.gitignore",
			Lines:  3,
		}}
		cmd, out := newCommand(t, controllers.NewGenerateController(stub),
			"Go", "b/Rust", "--output", "out/.gitignore", "--header", "-u", "--append", ".idea/")

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, commands.GenerateOptions{
			Templates:   []string{"Go", "b/Rust"},
			Extra:       []string{".idea/"},
			Output:      "out/.gitignore",
			Header:      true,
			ForceUpdate: true,
		}, stub.LastOpts)
		require.Len(t, stub.LastSettings.Sources, 2)
		assert.Contains(t, out.String(), "Wrote out/.gitignore from Go (3 lines)")
	})

	t.Run("should return the failure of the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGenerateCommand{
			ExecuteReport: &entities.Report{
				State:    entities.StateFailed,
				FailedAt: entities.StateReposSyncing,
				Skipped:  []entities.SourceFailure{{Source: "a", Err: errors.New("timeout")}},
			},
			ExecuteErr: entities.ErrAllSourcesFailed,
		}
		cmd, _ := newCommand(t, controllers.NewGenerateController(stub), "Go")

		// when
		err := cmd.Execute()

		// then
		require.ErrorIs(t, err, entities.ErrAllSourcesFailed)
		assert.Contains(t, err.Error(), string(entities.StateReposSyncing))
	})

	t.Run("should report the templates left out because they could not be read", func(t *testing.T) {
		t.Parallel()

		// given
		readErr := &entities.ReadError{
			Template: entities.Template{Source: "a", Name: "Rust"},
			Err:      errors.New("permission denied"),
		}
		stub := &commanddoubles.StubGenerateCommand{ExecuteReport: &entities.Report{
			State:        entities.StateDone,
			Used:         []entities.Template{{Source: "a", Name: "Go"}},
			ReadFailures: []error{readErr},
			Output:       ".gitignore",
			Lines:        2,
		}}
		cmd, out := newCommand(t, controllers.NewGenerateController(stub), "Go", "Rust")

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Wrote .gitignore from Go (2 lines)")
		assert.Contains(t, out.String(), "Left out 1 unreadable templates")
	})

	t.Run("should fail on an invalid config file", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGenerateCommand{}
		cmd, _ := newCommand(t, controllers.NewGenerateController(stub), "Go")
		configPath := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("stale_after: soon\n"), 0o600))
		cmd.SetArgs([]string{"--config", configPath, "Go"})

		// when
		err := cmd.Execute()

		// then
		require.Error(t, err)
		assert.Zero(t, stub.ExecuteCallCount)
	})
}

func TestListController(t *testing.T) {
	t.Parallel()

	index := entities.MergeIndices([]entities.TemplateIndex{
		{Source: "a", Templates: map[string]string{"Go": "/a/Go.gitignore"}},
		{Source: "b", Templates: map[string]string{"Go": "/b/Go.gitignore", "Rust": "/b/Rust.gitignore"}},
	}, nil)

	t.Run("should print one name per line in plain mode", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListCommand{ExecuteResult: &commands.ListResult{Index: index}}
		cmd, out := newCommand(t, controllers.NewListController(stub), "--plain")

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, "Go\nRust\n", out.String())
	})

	t.Run("should print a table with the resolving and shadowed sources", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListCommand{ExecuteResult: &commands.ListResult{Index: index}}
		cmd, out := newCommand(t, controllers.NewListController(stub), "--update")

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.True(t, stub.LastOpts.ForceUpdate)
		assert.Contains(t, out.String(), "Rust")
		assert.Contains(t, out.String(), "2 templates")
		assert.NotContains(t, out.String(), "2 TEMPLATES")
	})

	t.Run("should return the failure of the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListCommand{ExecuteErr: entities.ErrNoSources}
		cmd, _ := newCommand(t, controllers.NewListController(stub))

		// when
		err := cmd.Execute()

		// then
		require.ErrorIs(t, err, entities.ErrNoSources)
	})
}

func TestListControllerLogsSyncedSources(t *testing.T) {
	// given
	hook := logrustest.NewGlobal()
	level := logger.GetLevel()
	t.Cleanup(func() {
		logger.SetLevel(level)
		logger.StandardLogger().ReplaceHooks(make(logger.LevelHooks))
	})
	index := entities.MergeIndices([]entities.TemplateIndex{
		{Source: "a", Templates: map[string]string{"Go": "/a/Go.gitignore"}},
	}, nil)
	stub := &commanddoubles.StubListCommand{ExecuteResult: &commands.ListResult{
		Index: index,
		Synced: []entities.SyncResult{
			{
				Source:   entities.Source{Name: "a"},
				Entry:    &entities.RepoCacheEntry{},
				Outcome:  entities.OutcomeNotDue,
				HeadTime: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
			},
		},
	}}
	cmd, _ := newCommand(t, controllers.NewListController(stub), "--verbose", "--plain")

	// when
	err := cmd.Execute()

	// then
	require.NoError(t, err)
	var messages []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logger.DebugLevel {
			messages = append(messages, entry.Message)
		}
	}
	expected := fmt.Sprintf(
		"Source %q is fresh, last commit at %s",
		"a", time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC).Local().Format("2006-01-02 15:04"),
	)
	assert.Contains(t, messages, expected)
}

func TestUpdateController(t *testing.T) {
	t.Parallel()

	t.Run("should pass the selected sources and print every result", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubUpdateCommand{ExecuteResults: []entities.SyncResult{
			{
				Source:   entities.Source{Name: "a"},
				Entry:    &entities.RepoCacheEntry{},
				Outcome:  entities.OutcomeUpdated,
				HeadTime: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
			},
			{Source: entities.Source{Name: "b"}, Err: errors.New("remote repository not found")},
		}}
		cmd, out := newCommand(t, controllers.NewUpdateController(stub), "--source", "a,b")

		// when
		err := cmd.Execute()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, stub.LastOpts.Sources)
		assert.Contains(t, out.String(), "updated")
		assert.Contains(t, out.String(), "failed")
		assert.Contains(t, out.String(), "remote repository not found")
	})
}
