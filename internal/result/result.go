// Package result provides the success/failure envelope returned by every
// feature operation. A failure carries a Kind so callers can branch on the
// category of the problem instead of matching message strings.
package result

import "fmt"

// Kind classifies a failure.
type Kind int

const (
	// KindUnexpected covers storage and infrastructure errors.
	KindUnexpected Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindUnauthorized
)

// String returns a lower-case label used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unexpected"
	}
}

// Failure is the failed branch of a Result. It implements error so it can
// cross API boundaries that expect one.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Result holds either a value or a Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Empty is the value type for operations that succeed without a payload.
type Empty struct{}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Done is a successful Result with no payload.
func Done() Result[Empty] {
	return Result[Empty]{}
}

// Fail builds a failed Result of the given kind.
func Fail[T any](kind Kind, message string) Result[T] {
	return Result[T]{failure: &Failure{Kind: kind, Message: message}}
}

func NotFound[T any](message string) Result[T]     { return Fail[T](KindNotFound, message) }
func Conflict[T any](message string) Result[T]     { return Fail[T](KindConflict, message) }
func Validation[T any](message string) Result[T]   { return Fail[T](KindValidation, message) }
func Unauthorized[T any](message string) Result[T] { return Fail[T](KindUnauthorized, message) }
func Unexpected[T any](message string) Result[T]   { return Fail[T](KindUnexpected, message) }

// Propagate converts a failed Result into a failed Result of another type.
// It panics if r is a success, since there is no value to carry over.
func Propagate[T, U any](r Result[U]) Result[T] {
	if r.failure == nil {
		panic("result: Propagate called on a successful result")
	}
	return Result[T]{failure: r.failure}
}

// IsSuccess reports whether the Result carries a value.
func (r Result[T]) IsSuccess() bool {
	return r.failure == nil
}

// Value returns the success value, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
