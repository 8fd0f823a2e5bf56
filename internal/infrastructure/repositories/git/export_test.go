package git

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// AuthFor exports authFor for testing.
func (it *RepoStore) AuthFor(source entities.Source) transport.AuthMethod {
	return it.authFor(source)
}

// WithHint exports withHint for testing.
func (it *RepoStore) WithHint(source entities.Source, err error) error {
	return it.withHint(source, err)
}

// ClassifyError exports classifyError for testing.
var ClassifyError = func(err error) error { //nolint:gochecknoglobals // test export
	return classifyError(context.Background(), err)
}
