package errors

import (
	goerrors "errors"
)

// Unwrap, Is, As and Join forward to the standard errors package so callers
// need a single import.
func Unwrap(err error) error { return goerrors.Unwrap(err) }

func Is(err, target error) bool { return goerrors.Is(err, target) }

func As(err error, target any) bool { return goerrors.As(err, target) }

func Join(errs ...error) error { return goerrors.Join(errs...) }

// Find returns the first error of type T in err's chain
func Find[T error](err error) (T, bool) {
	var target T
	ok := goerrors.As(err, &target)
	return target, ok
}
