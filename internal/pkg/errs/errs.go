package errs

import (
	"errors"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches a sentinel to err so errors.Is(err, markErr) holds while the
// original cause stays inspectable. cr.Mark records the mark for the
// cockroachdb Is only; the wrapper's Is method exposes the sentinel to the
// standard library traversal, and Unwrap keeps the cause chain intact for
// errors.As.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: cr.Mark(err, markErr), sentinel: markErr}
}

type marked struct {
	cause    error
	sentinel error
}

func (m *marked) Error() string { return m.cause.Error() }
func (m *marked) Unwrap() error { return m.cause }

func (m *marked) Is(target error) bool {
	return errors.Is(m.sentinel, target)
}
