package domain

// An Update is one emission of a live query.
//
// A non-nil Err is always the last emission.
type Update[T any] struct {
	Value T
	Err   error
}
