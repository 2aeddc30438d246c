package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure classes. Callers match with
// errors.Is and decide whether to re-prompt, degrade, or abort.
var (
	// ErrInvalidConfigShape means neither the nested config.env shape nor
	// the flat shape yielded both credential fields.
	ErrInvalidConfigShape = errors.New("configuration has neither a config.env block nor flat credential fields")

	// ErrDuplicateName means an add collided with an existing name
	// (case-sensitive). The stored list is left unchanged.
	ErrDuplicateName = errors.New("configuration name already exists")

	// ErrOutOfRange means a 1-based selection ordinal fell outside the list.
	ErrOutOfRange = errors.New("selection out of range")

	// ErrParse means a managed file contained malformed JSON. Read paths
	// degrade to empty defaults after reporting it.
	ErrParse = errors.New("malformed JSON")
)

// OutOfRangeError wraps ErrOutOfRange with the valid range for display.
func OutOfRangeError(got, max int) error {
	return fmt.Errorf("%w: got %d, valid range is 1-%d", ErrOutOfRange, got, max)
}

// DuplicateNameError wraps ErrDuplicateName with the colliding name.
func DuplicateNameError(name string) error {
	return fmt.Errorf("%w: '%s'", ErrDuplicateName, name)
}
