package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned by Commit when nothing is staged.
var ErrEmptyBatch = errors.New("no documents staged")

// MissingTagError names the first staged document without tags.
type MissingTagError struct {
	Index int
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("document %d has no tags", e.Index)
}

// CopyError reports a staged document that could not be stored. Documents
// before Index were committed.
type CopyError struct {
	Index int
	Path  string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("storing document %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
