package redishelf

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotFound is the single absence signal used by every point read:
	// Book.Get with zero index matches, User.Read of a missing id,
	// Cart.Get of a missing id, and GetCartForUser with no open cart.
	ErrNotFound = errors.New("entity not found")

	// ErrCartClosed is returned when a mutation targets a cart whose
	// closed flag is already true. The operation fails before any write.
	ErrCartClosed = errors.New("cart is closed")

	// ErrIndexNotFound is returned by DropIndex when the index does not
	// exist. EnsureIndex swallows it during idempotent recreation.
	ErrIndexNotFound = errors.New("index does not exist")

	// ErrReservedDelimiter rejects ids and ISBNs containing the key
	// delimiter. Validated on write so decoding never becomes ambiguous.
	ErrReservedDelimiter = errors.New("identifier contains reserved delimiter")

	ErrInvalidData = errors.New("invalid data")
)

// DecodeError reports stored data that could not be parsed back into its
// semantic type (numeric price, integer quantity, boolean closed flag).
type DecodeError struct {
	Key   string // storage key the data came from
	Field string // hash field that failed to parse
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s field %q: %v", e.Key, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeErr wraps a parse failure with its storage location.
func decodeErr(key, field string, err error) error {
	return &DecodeError{Key: key, Field: field, Err: err}
}

// ErrorWithContext adds key-value context to errors for logging
type ErrorWithContext struct {
	Err     error
	Context map[string]interface{}
}

func (e *ErrorWithContext) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (context: %+v)", e.Err, e.Context)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

// WithContext adds context to an error
func WithContext(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// Common error checking helpers

// IsNotFound checks if an error is the absence signal
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCartClosed checks if an error is an invalid-state (closed cart) failure
func IsCartClosed(err error) bool {
	return errors.Is(err, ErrCartClosed)
}

// IsDecodeError reports whether err carries a DecodeError and returns it
func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
