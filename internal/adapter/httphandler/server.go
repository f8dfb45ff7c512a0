package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPServer has no write timeout because of the event streams. Plain
// routes are bounded one by one.
//
// Every request context derives from a base context that is cancelled
// when shutdown starts, so open streams end instead of holding it up.
type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	s.RegisterOnShutdown(cancel)
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

// Close drains the server until ctx is done, then drops the connections
// that are still open.
func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
		if err := s.httpServer.Close(); err != nil {
			log.Error("failed to close connections", "err", err)
		}
	}
	log.Info("http server is closed")
}
