package controllers

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

const timeLayout = "2006-01-02 15:04"

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update",
		Short: "Update the cached template sources",
		Long: `Clone missing sources and fast-forward the cached ones, regardless
of when they were last checked.

Sources are otherwise checked automatically once they are older than
"stale_after" (7 days by default).`,
	}
}

// Execute updates the sources and prints one row per source.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sources, _ := cmd.Flags().GetStringSlice("source")

	results, err := it.command.Execute(cmd.Context(), settings, commands.UpdateOptions{Sources: sources})
	if len(results) > 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatSyncTable(results))
	}
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("source", nil, "Only update these sources (comma separated or repeated)")
}

func formatSyncTable(results []entities.SyncResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Source", "Status", "Last commit", "Error"})

	for _, result := range results {
		status := result.Outcome.String()
		errText := ""
		if result.Err != nil {
			status = "failed"
			errText = result.Err.Error()
		}

		lastCommit := ""
		if !result.HeadTime.IsZero() {
			lastCommit = result.HeadTime.Local().Format(timeLayout)
		}

		t.AppendRow(table.Row{result.Source.Name, status, lastCommit, errText})
	}

	return t.Render()
}
