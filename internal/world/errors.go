package world

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions marks a caller defect: bad grid size or tunables.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrInvariant marks an internal logic failure detected mid-generation.
	ErrInvariant = errors.New("generation invariant violated")
)

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}

func optionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidOptions}, args...)...)
}
