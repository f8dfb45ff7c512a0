package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A NotificationsProducer publishes [domain.Notification] messages.
type NotificationsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewNotificationsProducer(
	opts ...ProducerOpt,
) (NotificationsProducer, error) {
	const op = "NewNotificationsProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return NotificationsProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return NotificationsProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "NotificationsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return NotificationsProducer{
		encoder:  options.encoder,
		producer: p,
		opPrefix: opPrefix,
	}, nil
}

func (p NotificationsProducer) Close() {
	p.producer.close()
}

func (p NotificationsProducer) Produce(
	ctx context.Context, vs ...domain.Notification,
) error {
	const op = "Produce"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	rs, err := p.createRecords(vs)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

// createRecords keys each record by recipient so one user's messages
// stay ordered.
func (p NotificationsProducer) createRecords(
	vs []domain.Notification,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, v := range vs {
		s := notificationToSchemaV1(v)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		r := &kgo.Record{Key: []byte(s.UserID), Value: b}
		rs = append(rs, r)
	}

	return rs, nil
}
