package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var ErrTooFewOpts = errors.New("too few options")

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

// NewProducerClient connects a producer to topic. A nil tlsConfig dials
// plaintext.
func NewProducerClient(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) (*kgo.Client, error) {
	const op = "kafka.NewProducerClient"

	opts := []kgo.Opt{
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopicAlways(),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if tlsConfig != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, opErr(err, op)
	}
	return cl, nil
}

// NewConsumerClient joins group on topic with manual offset commits.
func NewConsumerClient(
	seedBrokers []string, topic, group string, tlsConfig *tls.Config,
) (*kgo.Client, error) {
	const op = "kafka.NewConsumerClient"

	opts := []kgo.Opt{
		kgo.SeedBrokers(seedBrokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
		kgo.DisableAutoCommit(),
	}
	if tlsConfig != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, opErr(err, op)
	}
	return cl, nil
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func notificationToSchemaV1(v domain.Notification) (s schema.NotificationV1) {
	s.Type = string(v.Type)
	s.Title = v.Title
	s.Body = v.Body
	s.UserID = v.UserID.String()
	return
}

func schemaV1ToNotification(s schema.NotificationV1) (v domain.Notification) {
	v.Type = domain.NotificationType(s.Type)
	v.Title = s.Title
	v.Body = s.Body
	v.UserID = domain.UserID(s.UserID)
	return
}
