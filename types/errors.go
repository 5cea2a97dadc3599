package types

import "fmt"

// ParseError reports a malformed or truncated tag block. It is always
// recovered locally by falling back to filename heuristics and is never
// surfaced to the user.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tag parse failed: %s", e.Reason)
}

// ValidationError rejects a single file at ingestion (wrong type, too
// large). It never aborts the rest of a batch.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Filename, e.Reason)
}

// StorageError wraps a durable-store failure (quota, aborted transaction,
// unavailable database). Ingestion of the affected file is abandoned and
// any in-memory state already created for it is rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ResolutionError marks a track whose bytes could not be reacquired after
// a restart. The track stays in the library as unplayable.
type ResolutionError struct {
	TrackID string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("track %s: stored bytes unavailable", e.TrackID)
}
