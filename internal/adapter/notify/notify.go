package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

var _ port.NotificationPresenter = (*LogPresenter)(nil)

// LogPresenter shows routed notifications as structured log records, one
// logger per channel.
type LogPresenter struct {
	channels map[domain.NotificationChannel]*slog.Logger
}

func NewLogPresenter(log *slog.Logger) LogPresenter {
	if log == nil {
		log = slog.Default()
	}
	return LogPresenter{
		channels: map[domain.NotificationChannel]*slog.Logger{
			domain.ChannelOrders: log.With("channel", domain.ChannelOrders),
			domain.ChannelOffers: log.With("channel", domain.ChannelOffers),
		},
	}
}

func (p LogPresenter) Present(
	ctx context.Context, ch domain.NotificationChannel, n domain.Notification,
) error {
	const op = "LogPresenter.Present"

	log, ok := p.channels[ch]
	if !ok {
		return fmt.Errorf("%s: unknown channel %q", op, ch)
	}

	log.InfoContext(ctx, n.Title,
		"body", n.Body,
		"type", n.Type,
		"user", n.UserID,
	)
	return nil
}
