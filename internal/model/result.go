package model

//
// Result of invoking a backend
//

import (
	"errors"
	"fmt"
)

// FailureKind classifies a transport-level failure.
type FailureKind int

const (
	// FailureOther is a failure we do not know how to recover from.
	FailureOther = FailureKind(iota)

	// FailureTimeout means the call did not complete in time.
	FailureTimeout

	// FailureNoConnectivity means we could not reach the remote endpoint.
	FailureNoConnectivity
)

// String implements fmt.Stringer.
func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureNoConnectivity:
		return "no_connectivity"
	default:
		return "other"
	}
}

// resultVariant is the discriminant of [Result].
type resultVariant int

const (
	variantSuccess = resultVariant(iota)
	variantErrorResponse
	variantFailure
)

// Result is the outcome of invoking a backend. It is exactly one of:
//
// - a success carrying a value of type T;
//
// - an error response, meaning the remote endpoint was reached and answered
// with an application-level or HTTP-level error;
//
// - a failure, meaning the call never obtained a response.
//
// The zero value is a success with the zero value of T. Construct instances
// using [NewSuccess], [NewErrorResponse], and [NewFailure].
type Result[T any] struct {
	variant  resultVariant
	value    T
	httpCode int
	body     string
	err      error
	kind     FailureKind
}

// NewSuccess constructs a successful [Result].
func NewSuccess[T any](value T) Result[T] {
	return Result[T]{variant: variantSuccess, value: value}
}

// NewErrorResponse constructs an error-response [Result].
func NewErrorResponse[T any](httpCode int, body string) Result[T] {
	return Result[T]{variant: variantErrorResponse, httpCode: httpCode, body: body}
}

// ErrUnknownFailure is the error used by [NewFailure] when err is nil.
var ErrUnknownFailure = errors.New("model: unknown failure")

// NewFailure constructs a failure [Result]. A nil err is replaced
// with [ErrUnknownFailure] so that a failure always carries an error.
func NewFailure[T any](err error, kind FailureKind) Result[T] {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Result[T]{variant: variantFailure, err: err, kind: kind}
}

// IsSuccess returns whether this is a success.
func (r Result[T]) IsSuccess() bool {
	return r.variant == variantSuccess
}

// IsErrorResponse returns whether this is an error response.
func (r Result[T]) IsErrorResponse() bool {
	return r.variant == variantErrorResponse
}

// IsFailure returns whether this is a failure.
func (r Result[T]) IsFailure() bool {
	return r.variant == variantFailure
}

// IsTransient returns true only for failures whose kind is either
// [FailureTimeout] or [FailureNoConnectivity]. This is the only gate
// deciding whether we retry and whether we try alternative routes.
func (r Result[T]) IsTransient() bool {
	return r.variant == variantFailure &&
		(r.kind == FailureTimeout || r.kind == FailureNoConnectivity)
}

// Value returns the success value and whether this is a success.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.variant == variantSuccess
}

// HTTPCode returns the HTTP code of an error response or zero.
func (r Result[T]) HTTPCode() int {
	return r.httpCode
}

// Body returns the body of an error response or an empty string.
func (r Result[T]) Body() string {
	return r.body
}

// Err returns the error of a failure or nil.
func (r Result[T]) Err() error {
	return r.err
}

// Kind returns the kind of a failure. For other variants the
// return value is meaningless and equal to [FailureOther].
func (r Result[T]) Kind() FailureKind {
	return r.kind
}

// Match invokes exactly one of the given functions depending on the variant.
//
// All the functions are MANDATORY, which forces the caller to think about
// every possible outcome of a backend invocation.
func (r Result[T]) Match(
	onSuccess func(value T),
	onErrorResponse func(httpCode int, body string),
	onFailure func(err error, kind FailureKind),
) {
	switch r.variant {
	case variantErrorResponse:
		onErrorResponse(r.httpCode, r.body)
	case variantFailure:
		onFailure(r.err, r.kind)
	default:
		onSuccess(r.value)
	}
}

// String implements fmt.Stringer.
func (r Result[T]) String() string {
	switch r.variant {
	case variantErrorResponse:
		return fmt.Sprintf("error_response(%d)", r.httpCode)
	case variantFailure:
		return fmt.Sprintf("failure(%s): %s", r.kind, r.err.Error())
	default:
		return "success"
	}
}

// ConvertFailure converts a non-success [Result] to a [Result] of another
// type preserving the variant and its fields. Calling this function with a
// success is a programming error and causes a panic.
func ConvertFailure[T, U any](r Result[T]) Result[U] {
	if r.variant == variantSuccess {
		panic("model: ConvertFailure called with a success")
	}
	return Result[U]{
		variant:  r.variant,
		httpCode: r.httpCode,
		body:     r.body,
		err:      r.err,
		kind:     r.kind,
	}
}
