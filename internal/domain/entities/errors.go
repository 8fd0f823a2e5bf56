package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSources is returned when every configured source is skipped.
	ErrNoSources = errors.New("no template sources available")
	// ErrAllSourcesFailed is returned when no source could be synced or indexed.
	ErrAllSourcesFailed = errors.New("all template sources failed to sync")
	// ErrNoTemplates is returned when none of the requested templates could be used.
	ErrNoTemplates = errors.New("none of the requested templates could be found")

	// ErrCorruptRepository marks a cache path that exists but is not a usable repository.
	ErrCorruptRepository = errors.New("path exists but is not a git repository")
	// ErrNonFastForward marks a cached branch that diverged from its remote.
	ErrNonFastForward = errors.New("local branch cannot be fast-forwarded")
	// ErrDetachedHead marks a cached repository whose HEAD is not a branch.
	ErrDetachedHead = errors.New("HEAD is not a branch")
	// ErrAuthentication marks a remote that rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRemoteNotFound marks a remote location that does not exist.
	ErrRemoteNotFound = errors.New("remote repository not found")
	// ErrTimeout marks a network operation that exceeded the fetch timeout.
	ErrTimeout = errors.New("network operation timed out")
)

// AcquisitionError is returned when a source cannot be cloned or opened.
type AcquisitionError struct {
	Source string
	Path   string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire source %q at %s: %v", e.Source, e.Path, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// UpdateError is returned when a cached repository cannot be fetched or fast-forwarded.
type UpdateError struct {
	Source string
	Err    error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("failed to update source %q: %v", e.Source, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// IndexError is returned when a working tree cannot be walked.
type IndexError struct {
	Source string
	Path   string
	Err    error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("failed to index source %q at %s: %v", e.Source, e.Path, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// UnknownTemplateError names a requested template that no source provides.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q (names are case sensitive)", e.Name)
}

// ReadError is returned when a resolved template file cannot be read.
type ReadError struct {
	Template Template
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read template %s at %s: %v", e.Template, e.Template.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when the consolidated output cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// StateError is returned when the persisted staleness record is unusable.
// Callers recover from it by treating every source as stale.
type StateError struct {
	Path string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state file %s: %v", e.Path, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
