package commands

import (
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// Consolidator turns requested template names into a single deduplicated rule file.
type Consolidator struct {
	templates repositories.TemplateRepository
	output    repositories.OutputRepository
}

// NewConsolidator creates a new Consolidator.
func NewConsolidator(
	templates repositories.TemplateRepository,
	output repositories.OutputRepository,
) *Consolidator {
	return &Consolidator{templates: templates, output: output}
}

// Resolve looks every name up in index. Names that match nothing are
// collected instead of failing the whole resolution. Repeated names and
// references to the same template are resolved once, keeping request order.
func (it *Consolidator) Resolve(names []string, index *entities.CombinedIndex) entities.Resolution {
	var resolution entities.Resolution

	seenRefs := make(map[string]struct{}, len(names))
	seenTemplates := make(map[string]struct{}, len(names))
	for _, raw := range names {
		ref := strings.TrimSpace(raw)
		if ref == "" {
			continue
		}
		if _, dup := seenRefs[ref]; dup {
			continue
		}
		seenRefs[ref] = struct{}{}

		tmpl, ok := index.Lookup(ref)
		if !ok {
			resolution.Unknown = append(resolution.Unknown, &entities.UnknownTemplateError{Name: ref})
			continue
		}
		if _, dup := seenTemplates[tmpl.Key()]; dup {
			continue
		}
		seenTemplates[tmpl.Key()] = struct{}{}

		logger.Debugf("Resolved %q to %s", ref, tmpl.Path)
		resolution.Resolved = append(resolution.Resolved, tmpl)
	}

	return resolution
}

// Consolidate reads templates in order and merges their lines. A template
// that cannot be read is reported and skipped. Extra lines are appended last
// under the same deduplication rules.
func (it *Consolidator) Consolidate(
	templates []entities.Template,
	extra []string,
	policy entities.DedupPolicy,
) (*entities.RuleSet, []error) {
	ruleset := entities.NewRuleSet(policy)

	var failures []error
	for _, tmpl := range templates {
		lines, err := it.templates.ReadLines(tmpl.Path)
		if err != nil {
			logger.Errorf("Failed to read template %s: %v", tmpl, err)
			failures = append(failures, &entities.ReadError{Template: tmpl, Err: err})
			continue
		}

		added := ruleset.Merge(tmpl.Key(), lines)
		logger.Debugf("Merged %s: %d of %d lines kept", tmpl, added, len(lines))
	}

	if len(extra) > 0 {
		added := ruleset.Append(extra)
		logger.Debugf("Appended %d supplementary lines", added)
	}

	return ruleset, failures
}

// Write stores the rule set at destination.
func (it *Consolidator) Write(ruleset *entities.RuleSet, destination string) error {
	if err := it.output.Write(destination, ruleset.Lines()); err != nil {
		return &entities.WriteError{Path: destination, Err: err}
	}

	logger.Infof("Wrote %d lines to %s", ruleset.Len(), destination)
	return nil
}
