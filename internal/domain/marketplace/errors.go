package marketplace

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a marketplace failure so transports can map it to a status.
type ErrorKind string

const (
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindInvalidArgument     ErrorKind = "invalid-argument"
	KindUnsupportedCurrency ErrorKind = "unsupported-currency"
	KindInvalidListingType  ErrorKind = "invalid-listing-type"
	KindPriceOutOfRange     ErrorKind = "price-out-of-range"
	KindUnsupportedQuantity ErrorKind = "unsupported-quantity"
	KindNotFound            ErrorKind = "not-found"
	KindInvalidState        ErrorKind = "invalid-state"
	KindPermissionDenied    ErrorKind = "permission-denied"
	KindStorage             ErrorKind = "storage-error"
)

// Error is the single error type surfaced by the marketplace services.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, ErrInvalidState) works for every invalid-state failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

var (
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrUnsupportedCurrency = &Error{Kind: KindUnsupportedCurrency}
	ErrInvalidListingType  = &Error{Kind: KindInvalidListingType}
	ErrPriceOutOfRange     = &Error{Kind: KindPriceOutOfRange}
	ErrUnsupportedQuantity = &Error{Kind: KindUnsupportedQuantity}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied}
	ErrStorage             = &Error{Kind: KindStorage}

	// ErrNotFound is returned by stores when a document does not exist.
	ErrNotFound = &Error{Kind: KindNotFound}

	// ErrConflict is returned by stores when a guarded write lost a race.
	// Stores retry on it before giving up.
	ErrConflict = errors.New("marketplace: concurrent modification")
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// storageFailure passes domain errors through untouched and wraps everything
// else as a storage-error for the given operation.
func storageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStorage, Message: op, Err: err}
}
