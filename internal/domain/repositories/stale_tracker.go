package repositories

import (
	"time"
)

// StaleTracker decides whether a source is due for an update check and
// persists the last successful check of every source.
type StaleTracker interface {
	// Load reads the persisted record. A missing file yields an empty record;
	// a malformed one yields an empty record and a StateError.
	Load() error

	// Save persists the record.
	Save() error

	// IsStale returns true when no record exists for the source, when ttl is
	// zero or negative, or when now - lastChecked >= ttl.
	IsStale(sourceID string, now time.Time, ttl time.Duration) bool

	// RecordChecked stores now as the last successful check of the source.
	RecordChecked(sourceID string, now time.Time)

	// LastChecked returns the recorded time and whether a record exists.
	LastChecked(sourceID string) (time.Time, bool)
}

// StaleTrackerFactory builds a StaleTracker persisted at the given path.
type StaleTrackerFactory func(path string) StaleTracker
