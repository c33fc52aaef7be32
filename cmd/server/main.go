package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/bootstrap"
	"github.com/iliyamo/parkspace/internal/config"
	"github.com/iliyamo/parkspace/internal/queue"
	"github.com/iliyamo/parkspace/internal/router"
	"github.com/iliyamo/parkspace/internal/service"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Admin.Email != "" {
		auth := do.MustInvoke[service.AuthService](inj)
		_, created, err := auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName)
		if err != nil {
			log.Fatal("seed admin", zap.Error(err))
		}
		if created {
			log.Info("admin account created", zap.String("email", cfg.Admin.Email))
		}
	}

	if cfg.RabbitMQ.ConsumerEnabled {
		c := &queue.Consumer{
			URL:    cfg.RabbitMQ.URL,
			Queue:  cfg.RabbitMQ.Queue,
			LogDir: cfg.RabbitMQ.LogDir,
			Log:    log,
		}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("moderation consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(bootstrap.RouterDeps(inj))
	addr := ":" + cfg.App.Port

	go func() {
		log.Info("starting http server", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if p, ok := do.MustInvoke[service.EventPublisher](inj).(*queue.Publisher); ok {
		_ = p.Close()
	}
	if err := do.MustInvoke[*sqlx.DB](inj).Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
	log.Info("server exited")
}
