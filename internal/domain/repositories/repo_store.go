package repositories

import (
	"context"
	"time"

	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// RepoStore owns the local clones of the configured template sources.
// Implementations must be safe for concurrent use on distinct sources.
type RepoStore interface {
	// EnsurePresent clones the source when its cache path is absent or empty
	// and opens it otherwise. A path holding anything but a repository is
	// reported as an AcquisitionError and left untouched.
	EnsurePresent(ctx context.Context, source entities.Source) (*entities.RepoCacheEntry, error)

	// Update fetches the remote and fast-forwards the checked-out branch.
	// Failures are reported as an UpdateError.
	Update(ctx context.Context, entry *entities.RepoCacheEntry) (entities.UpdateOutcome, error)

	// LastCommitTime returns the committer time of HEAD.
	LastCommitTime(entry *entities.RepoCacheEntry) (time.Time, error)
}
