package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a point query matched no row.
var ErrNotFound = errors.New("storage: not found")

// ErrVersionConflict reports that a conditional write lost the race:
// the stored version no longer matches the version the caller read.
var ErrVersionConflict = errors.New("storage: version conflict")

// StoreError wraps a backing-store failure with the operation and the
// entity kind it happened on. Every error surfaced by a store
// implementation is either a bare sentinel above or a *StoreError
// wrapping one, so callers can branch with errors.Is.
type StoreError struct {
	Op   string
	Kind string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err; it returns nil when err is nil so store
// implementations can wrap unconditionally on their return path.
func NewStoreError(op, kind string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}
