package service

import (
	"errors"

	"github.com/iliyamo/rental-booking/internal/storage"
)

// Error kinds.  Every error returned by Service is an *Error whose Kind
// is one of these, so callers can branch with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("property is not available for the selected dates")
	ErrConflict    = errors.New("conflict")
	ErrInvalid     = errors.New("invalid argument")
	ErrStorage     = errors.New("storage failure")
)

// Error is the business error returned by the booking service.  It
// unwraps to both its kind and its cause, so errors.Is matches a kind
// such as ErrNotFound as well as a storage sentinel such as
// storage.ErrConstraint.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, cause error) error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// storageError classifies a failure reported by a store.
func storageError(op string, err error) error {
	kind := ErrStorage
	switch {
	case errors.Is(err, storage.ErrConstraint):
		kind = ErrConflict
	case errors.Is(err, storage.ErrNotFound):
		kind = ErrNotFound
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
