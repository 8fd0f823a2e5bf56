//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// SourceBuilder helps create test sources with a fluent interface.
type SourceBuilder struct {
	*testkit.BaseBuilder
	name       string
	url        string
	path       string
	token      string
	autoUpdate bool
	skip       bool
}

// NewSourceBuilder creates a new source builder with sensible defaults.
func NewSourceBuilder() *SourceBuilder {
	return &SourceBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "github",
		url:         "https://github.com/github/gitignore",
		path:        "/cache/github/gitignore",
		autoUpdate:  true,
	}
}

// WithName sets the source name and derives URL and path from it.
func (b *SourceBuilder) WithName(name string) *SourceBuilder {
	b.name = name
	b.url = "https://example.com/" + name + "/gitignore"
	b.path = "/cache/" + name + "/gitignore"
	return b
}

// WithURL sets the remote URL.
func (b *SourceBuilder) WithURL(url string) *SourceBuilder {
	b.url = url
	return b
}

// WithPath sets the cache path.
func (b *SourceBuilder) WithPath(path string) *SourceBuilder {
	b.path = path
	return b
}

// WithToken sets the auth token.
func (b *SourceBuilder) WithToken(token string) *SourceBuilder {
	b.token = token
	return b
}

// WithAutoUpdate sets whether staleness may trigger an update.
func (b *SourceBuilder) WithAutoUpdate(autoUpdate bool) *SourceBuilder {
	b.autoUpdate = autoUpdate
	return b
}

// WithSkip marks the source as skipped.
func (b *SourceBuilder) WithSkip(skip bool) *SourceBuilder {
	b.skip = skip
	return b
}

// Build creates the source (satisfies testkit.Builder interface).
func (b *SourceBuilder) Build() interface{} {
	return b.BuildSource()
}

// BuildSource creates the source with a concrete return type.
func (b *SourceBuilder) BuildSource() entities.Source {
	return entities.Source{
		Name:       b.name,
		URL:        b.url,
		Path:       b.path,
		Token:      b.token,
		AutoUpdate: b.autoUpdate,
		Skip:       b.skip,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SourceBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "github"
	b.url = "https://github.com/github/gitignore"
	b.path = "/cache/github/gitignore"
	b.token = ""
	b.autoUpdate = true
	b.skip = false
	return b
}

// Clone creates a deep copy of the SourceBuilder.
func (b *SourceBuilder) Clone() testkit.Builder {
	return &SourceBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		url:         b.url,
		path:        b.path,
		token:       b.token,
		autoUpdate:  b.autoUpdate,
		skip:        b.skip,
	}
}
