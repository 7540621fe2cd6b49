package modfile

import (
	"errors"
	"fmt"
)

// ErrMalformedImage is reported (via errors.Is) for every input
// that is too short or internally inconsistent.
var ErrMalformedImage = errors.New("malformed module image")

type ParseError struct {
	Message string

	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (offset=%d)", e.Message, e.Offset)
}

func (e *ParseError) Unwrap() error { return ErrMalformedImage }
