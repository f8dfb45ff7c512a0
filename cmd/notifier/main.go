// Command notifier publishes a single push message to the notifications
// topic. It is a tool for exercising the device notification channel.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"github.com/niksmo/smartmart/config"
	"github.com/niksmo/smartmart/internal/adapter"
	"github.com/niksmo/smartmart/internal/adapter/kafka"
	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/niksmo/smartmart/pkg/sigctx"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/sr"
)

const publishTimeout = 10 * time.Second

type message struct {
	kind  string
	title string
	body  string
	user  string
}

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	msg := getFlagsValues()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(sigCtx, publishTimeout)
	defer cancel()

	if err := publish(ctx, cfg, msg); err != nil {
		fmt.Printf("failed to publish notification: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("notification %q published to %q\n", msg.title, cfg.Broker.Topics.Notifications)
}

// getFlagsValues ignores unknown flags so --config reaches config.Load.
func getFlagsValues() message {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	kind := fs.StringP("type", "t", string(domain.NotificationGeneral), "order, offers or general")
	title := fs.String("title", "", "notification title")
	body := fs.String("body", "", "notification body")
	user := fs.String("user", "", "recipient user id, empty for broadcast")
	_ = fs.Parse(os.Args[1:])

	return message{*kind, *title, *body, *user}
}

func publish(ctx context.Context, cfg config.Config, msg message) error {
	const op = "notifier.publish"

	b := cfg.Broker
	if !b.Enabled() {
		return fmt.Errorf("%s: broker.seed_brokers is empty", op)
	}

	var tlsConfig *tls.Config
	if b.TLS.Enabled() {
		var err error
		tlsConfig, err = adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	srOpts := []sr.ClientOpt{sr.URLs(b.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	serde, err := schema.NewSerdeNotificationV1(
		ctx,
		schema.SubjectOpt(b.Topics.Notifications+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cl, err := kafka.NewProducerClient(ctx, b.SeedBrokers, b.Topics.Notifications, tlsConfig)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	producer, err := kafka.NewNotificationsProducer(
		kafka.ProducerClientOpt(cl),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		cl.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	defer producer.Close()

	return producer.Produce(ctx, domain.Notification{
		Type:   domain.NotificationType(msg.kind),
		Title:  msg.title,
		Body:   msg.body,
		UserID: domain.UserID(msg.user),
	})
}
