package localstore

import (
	"context"

	"github.com/niksmo/smartmart/internal/core/domain"
)

// watch emits read() now and again after every signal on topic.
//
// The subscription is taken before the first read, so no commit between
// the two is lost. A read error is emitted once and ends the stream; a
// read that fails because ctx is done ends it without an error.
func watch[T any](
	ctx context.Context, h *hub, topic string, read func() (T, error),
) <-chan domain.Update[T] {
	out := make(chan domain.Update[T])
	changed, unsubscribe := h.subscribe(topic)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			v, err := read()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				send(ctx, out, domain.Update[T]{Err: err})
				return
			}

			if !send(ctx, out, domain.Update[T]{Value: v}) {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-changed:
			}
		}
	}()

	return out
}

func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- v:
		return true
	}
}
