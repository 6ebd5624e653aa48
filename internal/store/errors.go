package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document id is not in the catalogue.
var ErrNotFound = errors.New("document not found")

// ConfigParseError reports hand-edited config text that is not valid JSON.
type ConfigParseError struct {
	Err error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid config JSON: %v", e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}
