package controllers

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the available templates",
		Long: `List every template name provided by the configured sources.

The "source" column shows which source a bare name resolves to. Other
sources providing the same name are shown under "also in" and can be
requested with a qualified name such as "source/Name".`,
	}
}

// Execute prints the combined index.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	plain, _ := cmd.Flags().GetBool("plain")
	force, _ := cmd.Flags().GetBool("update")

	result, err := it.command.Execute(cmd.Context(), settings, commands.ListOptions{ForceUpdate: force})
	if result != nil {
		logSynced(result.Synced)
		for _, skipped := range result.Skipped {
			logger.Warnf("Source %q was skipped: %v", skipped.Source, skipped.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	out := cmd.OutOrStdout()
	if plain {
		for _, name := range result.Index.Names() {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	_, _ = fmt.Fprintln(out, formatTemplatesTable(result.Index))
	return nil
}

// AddFlags adds the list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("plain", false, "Print one name per line")
	cmd.Flags().BoolP("update", "u", false, "Update every source before listing")
}

func formatTemplatesTable(index *entities.CombinedIndex) string {
	names := index.Names()
	if len(names) == 0 {
		return "No template available"
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Source", "Also in"})

	for _, name := range names {
		providers := index.Providers(name)
		shadowed := make([]string, 0, len(providers))
		for _, p := range providers[1:] {
			shadowed = append(shadowed, p.Source)
		}
		t.AppendRow(table.Row{name, providers[0].Source, strings.Join(shadowed, ", ")})
	}

	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
	})
	t.AppendFooter(table.Row{fmt.Sprintf("%d templates", len(names)), "", ""})

	return t.Render()
}

func logSynced(results []entities.SyncResult) {
	for _, result := range results {
		if !result.Succeeded() {
			continue
		}
		if result.HeadTime.IsZero() {
			logger.Debugf("Source %q is %s", result.Source.Name, result.Outcome)
			continue
		}
		logger.Debugf(
			"Source %q is %s, last commit at %s",
			result.Source.Name, result.Outcome, result.HeadTime.Local().Format(timeLayout),
		)
	}
}
