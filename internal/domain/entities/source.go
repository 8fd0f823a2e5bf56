package entities

import (
	"time"
)

// Source is a configured remote gitignore template repository.
type Source struct {
	Name       string // Unique identifier used in precedence lists and qualified lookups
	URL        string // Remote location of the repository
	Path       string // Absolute path of the local cache directory
	Token      string // Optional auth token for private repositories
	AutoUpdate bool   // Whether staleness alone may trigger a fetch
	Skip       bool   // Excluded from every operation when true
}

// RepoCacheEntry is the on-disk clone of a Source.
type RepoCacheEntry struct {
	Source Source
	Path   string
	Cloned bool // True when EnsurePresent performed the initial clone
}

// UpdateOutcome describes what a sync did to a cached repository.
type UpdateOutcome int

const (
	// OutcomeNotDue means the cache was fresh and no fetch was attempted.
	OutcomeNotDue UpdateOutcome = iota
	// OutcomeUpToDate means the remote had no new commits.
	OutcomeUpToDate
	// OutcomeUpdated means the working tree was fast-forwarded.
	OutcomeUpdated
	// OutcomeCloned means the repository was cloned in this run.
	OutcomeCloned
)

// String returns the string representation of the outcome.
func (o UpdateOutcome) String() string {
	switch o {
	case OutcomeNotDue:
		return "fresh"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeUpdated:
		return "updated"
	case OutcomeCloned:
		return "cloned"
	default:
		return "unknown"
	}
}

// Checked reports whether the outcome came from a successful remote check,
// which is the only case where the staleness record may be refreshed.
func (o UpdateOutcome) Checked() bool {
	return o != OutcomeNotDue
}

// SyncResult is the result of syncing a single Source.
type SyncResult struct {
	Source   Source
	Entry    *RepoCacheEntry
	Outcome  UpdateOutcome
	HeadTime time.Time // Committer time of HEAD, zero when unknown
	Err      error
}

// Succeeded returns true when the source can be indexed.
func (r SyncResult) Succeeded() bool {
	return r.Err == nil && r.Entry != nil
}
