// Package etlerr defines the error kinds surfaced by pipeline stages.
//
// Stages wrap the underlying cause together with one of the sentinels so
// callers can classify failures with errors.Is while keeping the driver error
// reachable through errors.As:
//
//	return fmt.Errorf("%w: %s: %w", etlerr.ErrExtraction, table, err)
package etlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means the source or target could not be reached.
	ErrConnection = errors.New("connection error")
	// ErrExtraction means a source query failed.
	ErrExtraction = errors.New("extraction error")
	// ErrTransform means a table had an unexpected shape during cleaning,
	// reconciliation or modeling.
	ErrTransform = errors.New("transform error")
	// ErrLoad means a warehouse write failed.
	ErrLoad = errors.New("load error")
)

// Wrap tags err with kind and a short context (usually a table name).
// A nil err stays nil.
func Wrap(kind error, context string, err error) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %s: %w", kind, context, err)
}

// Kind returns the sentinel err was tagged with, or nil when untagged.
func Kind(err error) error {
	for _, k := range []error{ErrConnection, ErrExtraction, ErrTransform, ErrLoad} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
