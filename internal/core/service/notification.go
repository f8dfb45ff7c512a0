package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

var _ port.NotificationRouter = (*Notifications)(nil)

type Notifications struct {
	presenter port.NotificationPresenter
}

func NewNotifications(presenter port.NotificationPresenter) Notifications {
	return Notifications{presenter}
}

// Route hands n to the presentation channel selected by its type.
func (s Notifications) Route(ctx context.Context, n domain.Notification) error {
	const op = "Notifications.Route"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ch := n.Type.Channel()
	if err := s.presenter.Present(ctx, ch, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("notification routed", "type", n.Type, "channel", ch)
	return nil
}
