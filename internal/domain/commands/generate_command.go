package commands

import (
	"context"
	"errors"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

const headerPrefix = "# Templates used: "

// Generate is the interface for the generate command.
type Generate interface {
	Execute(ctx context.Context, settings *entities.Settings, opts GenerateOptions) (*entities.Report, error)
}

// GenerateOptions holds runtime options for a single generation.
type GenerateOptions struct {
	Templates   []string // Bare or "source/name" references, falls back to the configured list
	Extra       []string // Lines appended after every template
	Output      string   // Destination file, falls back to the configured output
	Header      bool     // Prefix the output with the list of templates used
	ForceUpdate bool     // Update every source regardless of its staleness record
}

// GenerateCommand orchestrates a generation:
// resolve sources -> sync repositories -> index -> resolve templates -> consolidate.
type GenerateCommand struct {
	syncer       *SourceSyncer
	templates    repositories.TemplateRepository
	consolidator *Consolidator
}

// NewGenerateCommand creates a new GenerateCommand.
func NewGenerateCommand(
	syncer *SourceSyncer,
	templates repositories.TemplateRepository,
	consolidator *Consolidator,
) *GenerateCommand {
	return &GenerateCommand{
		syncer:       syncer,
		templates:    templates,
		consolidator: consolidator,
	}
}

// Execute runs the generation. The returned report is never nil, it
// describes how far the run went even when an error is returned.
func (it *GenerateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts GenerateOptions,
) (*entities.Report, error) {
	report := &entities.Report{State: entities.StateIdle}

	advance(report, entities.StateSourcesResolving)
	sources := settings.ActiveSources()
	if len(sources) == 0 {
		return fail(report, entities.ErrNoSources)
	}

	advance(report, entities.StateReposSyncing)
	report.Synced = it.syncer.Sync(ctx, settings, sources, opts.ForceUpdate)
	entries, syncFailures := syncedEntries(report.Synced)
	report.Skipped = append(report.Skipped, syncFailures...)
	if len(entries) == 0 {
		return fail(report, entities.ErrAllSourcesFailed)
	}

	advance(report, entities.StateIndexing)
	index, indexFailures := indexSources(it.templates, entries, settings)
	report.Skipped = append(report.Skipped, indexFailures...)
	if len(indexFailures) == len(entries) {
		return fail(report, entities.ErrAllSourcesFailed)
	}

	advance(report, entities.StateTemplatesResolving)
	names := opts.Templates
	if len(names) == 0 {
		names = settings.Templates
	}
	resolution := it.consolidator.Resolve(names, index)
	report.Missing = resolution.MissingNames()
	for _, unknown := range resolution.Unknown {
		logger.Warnf("Skipping %v", unknown)
	}
	if len(resolution.Resolved) == 0 {
		return fail(report, entities.ErrNoTemplates)
	}

	advance(report, entities.StateConsolidating)
	extra := append(append([]string(nil), settings.Supplementary...), opts.Extra...)
	ruleset, readFailures := it.consolidator.Consolidate(resolution.Resolved, extra, settings.Dedup)
	report.ReadFailures = readFailures
	report.Used = usedTemplates(resolution.Resolved, ruleset.Merged())
	if len(report.Used) == 0 {
		return fail(report, errors.Join(append([]error{entities.ErrNoTemplates}, readFailures...)...))
	}

	if opts.Header || settings.Header {
		ruleset.SetHeader(headerPrefix + strings.Join(report.UsedNames(), ", "))
	}

	output := opts.Output
	if output == "" {
		output = settings.Output
	}
	if err := it.consolidator.Write(ruleset, output); err != nil {
		return fail(report, err)
	}
	report.Output = output
	report.Lines = ruleset.Len()

	advance(report, entities.StateDone)
	logger.Infof(
		"Generation complete: %d templates used, %d missing, %d sources skipped",
		len(report.Used), len(report.Missing), len(report.Skipped),
	)
	return report, nil
}

func advance(report *entities.Report, state entities.EngineState) {
	logger.Debugf("Generation: %s -> %s", report.State, state)
	report.State = state
}

func fail(report *entities.Report, err error) (*entities.Report, error) {
	logger.Debugf("Generation failed while %s: %v", report.State, err)
	report.FailedAt = report.State
	report.State = entities.StateFailed
	return report, err
}

// usedTemplates keeps the resolved templates whose content was merged.
func usedTemplates(resolved []entities.Template, merged []string) []entities.Template {
	keys := make(map[string]struct{}, len(merged))
	for _, key := range merged {
		keys[key] = struct{}{}
	}

	used := make([]entities.Template, 0, len(merged))
	for _, tmpl := range resolved {
		if _, ok := keys[tmpl.Key()]; ok {
			used = append(used, tmpl)
		}
	}
	return used
}
