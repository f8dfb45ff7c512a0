// Package resource provides the tri-state envelope used to hand the
// progress of an asynchronous operation to observers.
package resource

import "fmt"

type State uint8

const (
	StateLoading State = iota + 1
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// An Error is the payload of the error variant.
//
// Kind is a stable machine readable class, Message is for humans.
type Error struct {
	Kind    string
	Message string
}

func (e Error) Error() string {
	return e.Kind + ": " + e.Message
}

// A Resource is exactly one of Loading, Success(Data) or Error(Err).
//
// Build values with [Loading], [Success] and [Failure] only.
type Resource[T any] struct {
	state State
	data  T
	err   Error
}

func Loading[T any]() Resource[T] {
	return Resource[T]{state: StateLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{state: StateSuccess, data: data}
}

func Failure[T any](kind, message string) Resource[T] {
	return Resource[T]{state: StateError, err: Error{kind, message}}
}

func (r Resource[T]) State() State {
	return r.state
}

func (r Resource[T]) IsLoading() bool { return r.state == StateLoading }
func (r Resource[T]) IsSuccess() bool { return r.state == StateSuccess }
func (r Resource[T]) IsError() bool   { return r.state == StateError }

// Data returns the payload and true for the success variant.
func (r Resource[T]) Data() (T, bool) {
	if r.state != StateSuccess {
		var zero T
		return zero, false
	}
	return r.data, true
}

// Err returns the error payload and true for the error variant.
func (r Resource[T]) Err() (Error, bool) {
	if r.state != StateError {
		return Error{}, false
	}
	return r.err, true
}

// Match calls exactly one of the handlers.
func (r Resource[T]) Match(
	onLoading func(), onSuccess func(T), onError func(Error),
) {
	switch r.state {
	case StateSuccess:
		onSuccess(r.data)
	case StateError:
		onError(r.err)
	default:
		onLoading()
	}
}
