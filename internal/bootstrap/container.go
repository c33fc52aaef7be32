package bootstrap

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/blob"
	"github.com/iliyamo/parkspace/internal/catalog"
	"github.com/iliyamo/parkspace/internal/config"
	"github.com/iliyamo/parkspace/internal/database"
	"github.com/iliyamo/parkspace/internal/logger"
	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/queue"
	"github.com/iliyamo/parkspace/internal/repository"
	"github.com/iliyamo/parkspace/internal/router"
	"github.com/iliyamo/parkspace/internal/service"
	"github.com/iliyamo/parkspace/internal/session"
)

// BuildContainer registers every long-lived dependency. Nothing is
// constructed until it is first invoked.
func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level, cfg.App.Env)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*sqlx.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		db, err := database.Open(context.Background(), cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(context.Background(), db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return db, nil
	})

	// Redis, nil when disabled or unreachable
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return config.NewRedisClient(cfg.Redis, do.MustInvoke[*zap.Logger](i)), nil
	})

	// moderation events
	do.Provide(inj, func(i *do.Injector) (service.EventPublisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.RabbitMQ.Enabled {
			return queue.NopPublisher{}, nil
		}
		return queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, do.MustInvoke[*zap.Logger](i)), nil
	})

	// S3, nil when no bucket is configured
	do.Provide(inj, func(i *do.Injector) (blob.ImageStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.S3.Enabled() {
			do.MustInvoke[*zap.Logger](i).Info("s3 not configured, image uploads disabled")
			return nil, nil
		}
		return blob.NewS3(context.Background(), cfg.S3)
	})

	do.Provide(inj, func(i *do.Injector) (*session.Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return session.NewManager(cfg.Session, cfg.IsProduction()), nil
	})

	do.Provide(inj, func(i *do.Injector) (*middleware.ResponseCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return middleware.NewResponseCache(cfg.Cache, do.MustInvoke[*redis.Client](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (*repository.UserRepo, error) {
		return repository.NewUserRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*repository.ProviderProfileRepo, error) {
		return repository.NewProviderProfileRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*repository.SpaceRepo, error) {
		return repository.NewSpaceRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProviderService, error) {
		return service.NewProviderService(
			do.MustInvoke[*repository.ProviderProfileRepo](i),
			do.MustInvoke[*repository.UserRepo](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewAuthService(
			do.MustInvoke[*repository.UserRepo](i),
			cfg.BcryptCost,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SpaceService, error) {
		return service.NewSpaceService(
			do.MustInvoke[*repository.SpaceRepo](i),
			do.MustInvoke[*repository.UserRepo](i),
			do.MustInvoke[*repository.ProviderProfileRepo](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*middleware.ResponseCache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*catalog.Service, error) {
		return catalog.NewService(do.MustInvoke[service.SpaceService](i)), nil
	})

	return inj
}

// RouterDeps collects what router.New needs from the container.
func RouterDeps(inj *do.Injector) router.Deps {
	cfg := do.MustInvoke[*config.Config](inj)
	return router.Deps{
		Log:       do.MustInvoke[*zap.Logger](inj),
		DB:        do.MustInvoke[*sqlx.DB](inj),
		Redis:     do.MustInvoke[*redis.Client](inj),
		Sessions:  do.MustInvoke[*session.Manager](inj),
		Auth:      do.MustInvoke[service.AuthService](inj),
		Providers: do.MustInvoke[service.ProviderService](inj),
		Spaces:    do.MustInvoke[service.SpaceService](inj),
		Catalog:   do.MustInvoke[*catalog.Service](inj),
		Cache:     do.MustInvoke[*middleware.ResponseCache](inj),
		RateLimit: cfg.RateLimit,
		Images:    do.MustInvoke[blob.ImageStore](inj),
		MaxUpload: cfg.S3.MaxUploadSize,
	}
}
