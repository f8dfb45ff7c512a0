package service

import (
	"context"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/resource"
)

func failure[T any](err error) resource.Resource[T] {
	return resource.Failure[T](string(domain.KindOf(err)), err.Error())
}

func emit[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- v:
		return true
	}
}

func userOrGuest(user domain.UserID) domain.UserID {
	if user == "" {
		return domain.GuestUserID
	}
	return user
}

type nopRecorder struct{}

func (nopRecorder) RecordRefresh(int, error) {}
func (nopRecorder) RecordReset(error)        {}
