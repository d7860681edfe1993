package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/souqlink/config"
	"github.com/talkincode/souqlink/internal/app"
	"github.com/talkincode/souqlink/internal/cart"
	"github.com/talkincode/souqlink/internal/catalog"
	"github.com/talkincode/souqlink/internal/dispatch"
	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/session"
	"github.com/talkincode/souqlink/internal/storeapi"
	"github.com/talkincode/souqlink/internal/webserver"
)

var (
	conffile = flag.String("c", "souqlink.yml", "config file path")
	initdb   = flag.Bool("initdb", false, "truncate persisted state and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		panic(err)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("persisted state truncated")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first catalog load is awaited before serving so the initial render
	// has data; a failure falls back to the empty catalog and the periodic
	// refresh keeps retrying.
	store := catalog.NewStore(cfg.Catalog)
	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	if err := store.Load(loadCtx); err != nil {
		zap.L().Warn("starting with empty catalog", zap.Error(err))
	}
	cancel()

	sessions, err := session.NewManager(application.DB(), application.Bus())
	if err != nil {
		zap.S().Fatal(err)
	}

	dispatcher, err := dispatch.New(cfg.Messaging, application.IDNode(), application.Bus())
	if err != nil {
		zap.S().Fatal(err)
	}
	defer dispatcher.Close()

	ws := webserver.Init(cfg, application.IDNode())
	storeapi.Register(&storeapi.Env{
		Catalog:    store,
		Carts:      cart.NewRegistry(application.IDNode(), application.Bus()),
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Notices:    notify.NewCenter(application.Bus(), notify.DefaultTTL),
		Bus:        application.Bus(),
	})

	application.StartBackgroundJobs(ctx, store)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ws.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("webserver shutdown failed", zap.Error(err))
		}
	}()

	if err := ws.Start(); err != nil && err != http.ErrServerClosed {
		zap.S().Fatal(err)
	}
}
