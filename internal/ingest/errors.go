package ingest

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned when a caller cancels ingestion. It is a distinct
// terminal condition, never a silent partial success.
var ErrCanceled = errors.New("ingestion canceled")

// ErrNoEntries is returned when a source yielded no valid entries after
// filtering. Callers distinguish this from transport failures: "this URL has
// no hosts entries" is a different message than "couldn't reach the URL".
var ErrNoEntries = errors.New("no valid entries in source")

// StatusError reports a non-200 response from a source.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// SourceError wraps a failure with the source it came from, so multi-source
// ingestion can report which lists failed.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q (%s): %v", e.Source.Name, e.Source.URL, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
