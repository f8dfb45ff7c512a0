package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/niksmo/smartmart/config"
	"github.com/niksmo/smartmart/internal/adapter"
	"github.com/niksmo/smartmart/internal/adapter/httphandler"
	"github.com/niksmo/smartmart/internal/adapter/identity"
	"github.com/niksmo/smartmart/internal/adapter/kafka"
	"github.com/niksmo/smartmart/internal/adapter/localstore"
	"github.com/niksmo/smartmart/internal/adapter/notify"
	"github.com/niksmo/smartmart/internal/adapter/storage"
	"github.com/niksmo/smartmart/internal/core/service"
	"github.com/niksmo/smartmart/internal/metrics"
	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/robfig/cron/v3"
	"github.com/twmb/franz-go/pkg/sr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

type outbound struct {
	local    *localstore.Store
	sqldb    storage.SQLDB
	catalog  storage.CatalogRepository
	users    storage.UsersRepository
	identity identity.Provider
}

type coreService struct {
	catalog       service.Catalog
	cart          service.Cart
	wishlist      service.Wishlist
	auth          service.Auth
	notifications service.Notifications
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	logFile    io.Closer
	recorder   *metrics.Recorder
	outbound   outbound
	service    coreService
	consumer   *kafka.NotificationsConsumer
	scheduler  *cron.Cron
	httpServer httphandler.HTTPServer
	group      *errgroup.Group
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initNotifications()
	app.initScheduler()
	app.initInboundAdapters()

	return app
}

// initLogger writes JSON records to stderr and, when log_file is set, to
// a rotated file as well.
func (app *App) initLogger() {
	var w io.Writer = os.Stderr
	if app.cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   app.cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		app.logFile = lj
		w = io.MultiWriter(os.Stderr, lj)
	}
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	local, err := localstore.Open(app.cfg.LocalCachePath)
	if err != nil {
		app.fallDown(op, err)
	}

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.RemoteDB)
	if err != nil {
		app.fallDown(op, err)
	}

	idp, err := identity.NewProvider(sqldb, app.identityOpts()...)
	if err != nil {
		app.fallDown(op, err)
	}

	app.outbound = outbound{
		local:    local,
		sqldb:    sqldb,
		catalog:  storage.NewCatalogRepository(sqldb),
		users:    storage.NewUsersRepository(sqldb),
		identity: idp,
	}
}

func (app *App) identityOpts() []identity.ProviderOpt {
	cfg := app.cfg.Auth
	opts := []identity.ProviderOpt{
		identity.SessionSecretOpt(cfg.SessionSecret),
		identity.SessionTTLOpt(cfg.SessionTTL),
	}
	if cfg.FederatedSecret != "" {
		opts = append(opts, identity.FederatedSecretOpt(cfg.FederatedSecret))
	}
	if app.cfg.SMTP.Host != "" && cfg.ResetURL != "" {
		smtp := app.cfg.SMTP
		mailer := identity.NewSMTPMailer(
			smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From,
		)
		opts = append(opts, identity.PasswordResetOpt(cfg.ResetURL, mailer))
	}
	return opts
}

func (app *App) initCoreService() {
	app.recorder = metrics.New()
	o := app.outbound

	app.service = coreService{
		catalog:  service.NewCatalog(o.local, o.catalog, app.recorder),
		cart:     service.NewCart(o.local),
		wishlist: service.NewWishlist(o.local),
		auth:     service.NewAuth(o.identity, o.users, app.cfg.Auth.Timeout),
		notifications: service.NewNotifications(
			notify.NewLogPresenter(slog.Default().With("component", "notifications")),
		),
	}
}

// initNotifications wires the push channel consumer. It is skipped when
// no seed brokers are configured.
func (app *App) initNotifications() {
	const op = "App.initNotifications"
	log := slog.With("op", op)

	b := app.cfg.Broker
	if !b.Enabled() {
		log.Info("notifications are disabled")
		return
	}

	var tlsConfig *tls.Config
	if b.TLS.Enabled() {
		var err error
		tlsConfig, err = adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
		if err != nil {
			app.fallDown(op, err)
		}
	}

	srOpts := []sr.ClientOpt{sr.URLs(b.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeNotificationV1(
		app.ctx,
		schema.SubjectOpt(b.Topics.Notifications+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	cl, err := kafka.NewConsumerClient(
		b.SeedBrokers, b.Topics.Notifications, b.Consumers.NotificationsGroup, tlsConfig,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	consumer, err := kafka.NewNotificationsConsumer(
		kafka.ConsumerClientOpt(cl),
		kafka.ConsumerDecoderOpt(serde),
		kafka.NotificationRouterOpt(app.service.notifications),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.consumer = &consumer
}

// initScheduler registers the periodic catalog refresh when
// refresh_schedule is set.
func (app *App) initScheduler() {
	const op = "App.initScheduler"

	spec := app.cfg.RefreshSchedule
	if spec == "" {
		return
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		app.refresh("scheduled")
	})
	if err != nil {
		app.fallDown(op, fmt.Errorf("invalid refresh schedule %q: %w", spec, err))
	}
	app.scheduler = c
}

func (app *App) initInboundAdapters() {
	limiter := rate.NewLimiter(
		rate.Limit(app.cfg.RateLimit.RPS), app.cfg.RateLimit.Burst,
	)

	handler := httphandler.NewRouter(httphandler.RouterOpts{
		Catalog:    app.service.catalog,
		Cart:       app.service.cart,
		Wishlist:   app.service.wishlist,
		Auth:       app.service.auth,
		Recorder:   app.recorder,
		Metrics:    app.recorder.Handler(),
		Limiter:    limiter,
		AdminToken: app.cfg.AdminToken,
	})
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) refresh(trigger string) {
	const op = "App.refresh"
	log := slog.With("op", op, "trigger", trigger)

	if err := app.service.catalog.Refresh(app.ctx); err != nil {
		log.Warn("catalog refresh failed", "err", err)
		return
	}
	log.Info("catalog refreshed")
}

// Run starts the HTTP server, the notification consumer and the refresh
// scheduler, then fires the cold-start refresh.
func (app *App) Run(stopFn context.CancelFunc) {
	g, ctx := errgroup.WithContext(app.ctx)
	app.group = g

	g.Go(func() error {
		app.httpServer.Run(stopFn)
		return nil
	})

	if app.consumer != nil {
		g.Go(func() error {
			app.consumer.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		app.refresh("cold-start")
		return nil
	})

	if app.scheduler != nil {
		app.scheduler.Start()
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	const op = "App.Close"
	log := slog.With("op", op)

	log.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.scheduler != nil {
		select {
		case <-app.scheduler.Stop().Done():
		case <-ctx.Done():
			log.Warn("scheduled refresh is still running")
		}
	}

	if app.group != nil {
		done := make(chan struct{})
		go func() {
			_ = app.group.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			log.Warn("background tasks did not finish in time")
		}
	}

	if app.consumer != nil {
		app.consumer.Close()
	}
	app.outbound.local.Close()
	app.outbound.sqldb.Close()

	log.Info("application is closed")

	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
