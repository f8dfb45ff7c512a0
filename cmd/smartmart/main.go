package main

import (
	"context"
	"time"

	"github.com/niksmo/smartmart/config"
	"github.com/niksmo/smartmart/internal/app"
	"github.com/niksmo/smartmart/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	smartmart := app.New(sigCtx, cfg)

	smartmart.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	smartmart.Close(ctx)
}
