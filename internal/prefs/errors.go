package prefs

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when the input is blank after normalization.
var ErrEmpty = errors.New("empty preference")

// UnknownError is returned when input resolves to no known language or
// country. Suggestion carries a close name when fuzzy matching found one.
type UnknownError struct {
	Kind       string // "language" or "country"
	Input      string
	Suggestion string
}

func (e *UnknownError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q (did you mean %s?)", e.Kind, e.Input, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Input)
}
