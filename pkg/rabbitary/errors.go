package rabbitary

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDigitGroup is reported when a group of eight characters is
	// not a binary number.
	ErrInvalidDigitGroup = errors.New("invalid digit group")
	// ErrInvalidUTF8 is reported when the decoded bytes are not UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)

// DecodeError describes why Decode failed. Kind is one of the Err* values
// above; Group is the zero-based index of the byte group at fault.
type DecodeError struct {
	Kind  error
	Group int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v in group %d: %v", e.Kind, e.Group, e.Err)
	}
	return fmt.Sprintf("%v starting at group %d", e.Kind, e.Group)
}

// Is makes errors.Is match on Kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause from github.com/pkg/errors reach the kind.
func (e *DecodeError) Cause() error {
	return e.Kind
}
