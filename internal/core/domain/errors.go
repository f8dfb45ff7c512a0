package domain

import (
	"context"
	"errors"
)

var (
	ErrNetwork    = errors.New("remote unavailable")
	ErrNotFound   = errors.New("not found")
	ErrTimeout    = errors.New("timed out")
	ErrLocalStore = errors.New("local store failure")
	ErrValidation = errors.New("invalid input")

	ErrUnauthenticated = errors.New("unauthenticated")
)

type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindNotFound        ErrorKind = "not_found"
	KindTimeout         ErrorKind = "timeout"
	KindLocalStore      ErrorKind = "local_store"
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindInternal        ErrorKind = "internal"
)

// KindOf classifies err by the first matching sentinel.
//
// Validation and not-found win over transport kinds because adapters
// may wrap both.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrLocalStore):
		return KindLocalStore
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindInternal
	}
}
