//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	sources       []entities.Source
	precedence    []string
	staleAfter    time.Duration
	concurrency   int
	dedup         entities.DedupPolicy
	output        string
	header        bool
	templates     []string
	supplementary []string
}

// NewSettingsBuilder creates a new settings builder with sensible defaults
// and no source.
func NewSettingsBuilder() *SettingsBuilder {
	b := &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.Reset()
	return b
}

// WithSources replaces the sources.
func (b *SettingsBuilder) WithSources(sources ...entities.Source) *SettingsBuilder {
	b.sources = append([]entities.Source(nil), sources...)
	return b
}

// WithSourceNames adds one default source per name, in order.
func (b *SettingsBuilder) WithSourceNames(names ...string) *SettingsBuilder {
	for _, name := range names {
		b.sources = append(b.sources, NewSourceBuilder().WithName(name).BuildSource())
	}
	return b
}

// WithPrecedence sets the bare-name precedence list.
func (b *SettingsBuilder) WithPrecedence(names ...string) *SettingsBuilder {
	b.precedence = names
	return b
}

// WithStaleAfter sets the staleness threshold.
func (b *SettingsBuilder) WithStaleAfter(staleAfter time.Duration) *SettingsBuilder {
	b.staleAfter = staleAfter
	return b
}

// WithConcurrency sets the number of sources synced at once.
func (b *SettingsBuilder) WithConcurrency(concurrency int) *SettingsBuilder {
	b.concurrency = concurrency
	return b
}

// WithDedup sets the deduplication policy.
func (b *SettingsBuilder) WithDedup(policy entities.DedupPolicy) *SettingsBuilder {
	b.dedup = policy
	return b
}

// WithOutput sets the destination file.
func (b *SettingsBuilder) WithOutput(output string) *SettingsBuilder {
	b.output = output
	return b
}

// WithHeader enables the "templates used" header.
func (b *SettingsBuilder) WithHeader(header bool) *SettingsBuilder {
	b.header = header
	return b
}

// WithTemplates sets the default template list.
func (b *SettingsBuilder) WithTemplates(names ...string) *SettingsBuilder {
	b.templates = names
	return b
}

// WithSupplementary sets lines appended after every template.
func (b *SettingsBuilder) WithSupplementary(lines ...string) *SettingsBuilder {
	b.supplementary = lines
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		CacheDir:      "/cache",
		StateFile:     "/cache/state.toml",
		StaleAfter:    b.staleAfter,
		FetchTimeout:  entities.DefaultFetchTimeout,
		Concurrency:   b.concurrency,
		Sources:       append([]entities.Source(nil), b.sources...),
		Precedence:    b.precedence,
		Extensions:    []string{entities.DefaultExtension},
		Dedup:         b.dedup,
		Output:        b.output,
		Header:        b.header,
		Templates:     b.templates,
		Supplementary: b.supplementary,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.sources = nil
	b.precedence = nil
	b.staleAfter = entities.DefaultStaleAfter
	b.concurrency = entities.DefaultConcurrency
	b.dedup = entities.DedupUniform
	b.output = entities.DefaultOutput
	b.header = false
	b.templates = nil
	b.supplementary = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		sources:       append([]entities.Source(nil), b.sources...),
		precedence:    append([]string(nil), b.precedence...),
		staleAfter:    b.staleAfter,
		concurrency:   b.concurrency,
		dedup:         b.dedup,
		output:        b.output,
		header:        b.header,
		templates:     append([]string(nil), b.templates...),
		supplementary: append([]string(nil), b.supplementary...),
	}
}
