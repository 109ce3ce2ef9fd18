package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyBogomolovv/storefront-service/internal/app"
	"github.com/SergeyBogomolovv/storefront-service/internal/auth"
	"github.com/SergeyBogomolovv/storefront-service/internal/config"
	"github.com/SergeyBogomolovv/storefront-service/internal/handler"
	"github.com/SergeyBogomolovv/storefront-service/internal/mongodb"
	"github.com/SergeyBogomolovv/storefront-service/internal/postgres"
	"github.com/SergeyBogomolovv/storefront-service/internal/repo"
	"github.com/SergeyBogomolovv/storefront-service/internal/service"
	"github.com/SergeyBogomolovv/storefront-service/pkg/cache"
	"github.com/SergeyBogomolovv/storefront-service/pkg/trm"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// @title           Storefront Service API
// @version         1.0
// @description     Документация HTTP API
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, closeStore, err := newStore(ctx, conf)
	panicIfErr("failed to init storage", err)
	defer closeStore()
	logger.Info("storage ready", slog.String("backend", conf.Storage.Backend))

	snapshotCache, closeCache := newCache(logger, conf)
	defer closeCache()

	service.RegisterMetrics(prometheus.DefaultRegisterer)
	handler.RegisterMetrics(prometheus.DefaultRegisterer)

	tokens := auth.NewTokenManager(conf.Auth.JWTSecret, conf.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(conf.Auth.BcryptCost)

	orderService := service.NewOrderService(logger, store, snapshotCache)
	authService := service.NewAuthService(logger, store, hasher, tokens)

	httpHandler := handler.NewHTTPHandler(logger, orderService, tokens)
	authHandler := handler.NewAuthHandler(logger, authService)

	app := app.New(logger, conf)
	app.SetHTTPHandlers(httpHandler, authHandler)

	if conf.Kafka.Enabled {
		app.SetConsumers(handler.NewKafkaHandler(logger, conf.Kafka, orderService))
	}
	if starter, ok := snapshotCache.(interface {
		Start(ctx context.Context) error
	}); ok {
		app.SetStarters(starter)
	}

	panicIfErr("failed to start app", app.Start(ctx))

	done := make(chan error, 1)
	go func() { done <- app.Wait() }()

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil {
			logger.Error("application failed", slog.Any("error", err))
		}
	}
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

type store interface {
	service.OrderRepo
	service.UserRepo
}

func newStore(ctx context.Context, conf config.Config) (store, func(), error) {
	switch conf.Storage.Backend {
	case "postgres":
		if err := postgres.Migrate(conf.Postgres); err != nil {
			return nil, nil, err
		}
		db, err := postgres.New(conf.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewPostgresRepo(db, trm.NewManager(db)), func() { db.Close() }, nil

	case "mongo":
		client, err := mongodb.New(ctx, conf.Mongo)
		if err != nil {
			return nil, nil, err
		}
		mongoRepo := repo.NewMongoRepo(client.Database(conf.Mongo.Database))
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, err
		}
		return mongoRepo, func() { client.Disconnect(context.Background()) }, nil

	case "file":
		fileRepo, err := repo.OpenFileRepo(conf.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return fileRepo, func() {}, nil

	case "memory":
		return repo.NewMemoryRepo(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
}

func newCache(logger *slog.Logger, conf config.Config) (service.Cache, func()) {
	if conf.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		return cache.NewRedisCache(logger, client, conf.Cache.TTL, conf.Redis.OpTimeout), func() { client.Close() }
	}
	return cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL), func() {}
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
