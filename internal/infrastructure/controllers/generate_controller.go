package controllers

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// GenerateController handles the "generate" subcommand.
type GenerateController struct {
	command commands.Generate
}

// NewGenerateController creates a new GenerateController.
func NewGenerateController(command commands.Generate) *GenerateController {
	return &GenerateController{command: command}
}

// GetBind returns the Cobra command metadata for the generate controller.
func (it *GenerateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "generate [template...]",
		Short: "Generate a .gitignore from templates",
		Long: `Merge the named templates into a single .gitignore.

Templates are looked up by name ("Go") or qualified by source ("github/Go").
A bare name is taken from the first source, in precedence order, that
provides it. Duplicate lines are dropped, the first occurrence wins.
Unknown names are reported and skipped.

When no template is named, the "templates" list of the config file is used.`,
	}
}

// Execute generates the output file and reports what was used and missed.
func (it *GenerateController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	header, _ := cmd.Flags().GetBool("header")
	force, _ := cmd.Flags().GetBool("update")
	extra, _ := cmd.Flags().GetStringArray("append")

	report, err := it.command.Execute(cmd.Context(), settings, commands.GenerateOptions{
		Templates:   args,
		Extra:       extra,
		Output:      output,
		Header:      header,
		ForceUpdate: force,
	})
	if report == nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, skipped := range report.Skipped {
		logger.Warnf("Source %q was skipped: %v", skipped.Source, skipped.Err)
	}
	if len(report.Missing) > 0 {
		logger.Warnf("Templates not found: %s", strings.Join(report.Missing, ", "))
	}
	for _, readErr := range report.ReadFailures {
		logger.Warnf("Template left out: %v", readErr)
	}
	if err != nil {
		return fmt.Errorf("generation failed while %s: %w", report.FailedAt, err)
	}

	_, _ = fmt.Fprintf(
		cmd.OutOrStdout(),
		"Wrote %s from %s (%d lines)\n",
		report.Output, strings.Join(report.UsedNames(), ", "), report.Lines,
	)
	if len(report.ReadFailures) > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Left out %d unreadable templates\n", len(report.ReadFailures))
	}
	return nil
}

// AddFlags adds the generate-specific flags to the given Cobra command.
func (it *GenerateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Destination file (default: config output or .gitignore)")
	cmd.Flags().Bool("header", false, "Start the file with a comment listing the templates used")
	cmd.Flags().BoolP("update", "u", false, "Update every source before generating")
	cmd.Flags().StringArray("append", nil, "Extra line appended after the templates (repeatable)")
}
