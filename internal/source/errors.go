package source

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is matched by every error returned when the raw text
// of an input could not be obtained.
var ErrSourceUnavailable = errors.New("source unavailable")

// UnavailableError carries the input identifier that could not be read.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("failed to open file: %s", e.Path)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
