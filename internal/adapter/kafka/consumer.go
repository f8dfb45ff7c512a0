package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const slowDownTimeout = 1 * time.Second

////////////////////////////////////////////////////////
///////////////           OPTS            //////////////
////////////////////////////////////////////////////////

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(cl ConsumerClient) ConsumerOpt {
	return func(co *consumerOpts) error {
		if cl == nil {
			return errors.New("consumer client is nil")
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func NotificationRouterOpt(r port.NotificationRouter) ConsumerOpt {
	return func(co *consumerOpts) error {
		if r == nil {
			return errors.New("notification router is nil")
		}
		co.router = r
		return nil
	}
}

type consumerOpts struct {
	cl      ConsumerClient
	decoder Decoder
	router  port.NotificationRouter
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	if co.cl == nil || co.decoder == nil || co.router == nil {
		return ErrTooFewOpts
	}
	return nil
}

////////////////////////////////////////////////////////
////////////           CONSUMERS            ////////////
////////////////////////////////////////////////////////

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].

type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

type consumer struct {
	opPrefix      string
	parent        consumerParent
	cl            ConsumerClient
	slowDownTimer *time.Timer
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown(ctx)
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.parent.processFetches(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.commit(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown(ctx context.Context) {
	c.slowDownTimer.Reset(slowDownTimeout)
	select {
	case <-ctx.Done():
	case <-c.slowDownTimer.C:
	}
}

func (c consumer) commit(ctx context.Context) error {
	const op = "commit"

	err := ctx.Err()
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

// A NotificationsConsumer consumes push messages
// then hands them to the core router.
type NotificationsConsumer struct {
	opPrefix string
	consumer consumer
	router   port.NotificationRouter
	decoder  Decoder
}

func NewNotificationsConsumer(
	opts ...ConsumerOpt,
) (nc NotificationsConsumer, err error) {
	const op = "NewNotificationsConsumer"

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return nc, opErr(err, op)
	}

	opPrefix := "NotificationsConsumer"

	nc.opPrefix = opPrefix
	nc.router = options.router
	nc.decoder = options.decoder

	timer := time.NewTimer(0)
	<-timer.C

	nc.consumer = consumer{
		opPrefix:      opPrefix,
		parent:        nc,
		cl:            options.cl,
		slowDownTimer: timer,
	}

	return nc, nil
}

// Run blocks until ctx is done.
func (c NotificationsConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c NotificationsConsumer) Close() {
	c.consumer.close()
}

// processFetches skips undecodable records. A routing failure leaves the
// offsets uncommitted.
func (c NotificationsConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"

	for _, v := range c.toDomain(fetches) {
		if err := c.router.Route(ctx, v); err != nil {
			return opErr(err, c.opPrefix, op)
		}
	}
	return nil
}

func (c NotificationsConsumer) toDomain(
	fetches kgo.Fetches,
) (vs []domain.Notification) {
	const op = "toDomain"
	log := slog.With("op", makeOp(c.opPrefix, op))

	fetches.EachRecord(func(r *kgo.Record) {
		v, err := c.decodeRecValue(r)
		if err != nil {
			log.Error(
				"failed to decode value",
				"err", opErr(err, c.opPrefix, op),
				"offset", r.Offset,
			)
			return
		}
		vs = append(vs, v)
	})
	return vs
}

func (c NotificationsConsumer) decodeRecValue(
	r *kgo.Record,
) (domain.Notification, error) {
	var s schema.NotificationV1
	err := c.decoder.Decode(r.Value, &s)
	if err != nil {
		return domain.Notification{}, err
	}
	return schemaV1ToNotification(s), nil
}
