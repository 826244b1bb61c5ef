// Package apperrors defines the error kinds crossing component boundaries:
// validation, gateway, not-found and persistence failures. Handlers translate
// these to HTTP status codes; nothing else leaks out raw.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// GatewayError reports a failed call to the payment provider: transport
// failure, auth rejection, or a non-2xx API response.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("webpay %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

func Gateway(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

// NotFoundError reports a missing order or product.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Resource, e.Key) }

func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// PersistenceError reports a storage-layer failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsGateway(err error) bool {
	var e *GatewayError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}
