package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/bootstrap"
	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	httptransport "github.com/mladjabiznis1-source/sales-tracker/internal/http"
	"github.com/mladjabiznis1-source/sales-tracker/internal/http/handler"
	httpmiddleware "github.com/mladjabiznis1-source/sales-tracker/internal/http/middleware"
	"github.com/mladjabiznis1-source/sales-tracker/internal/middleware"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
	"github.com/mladjabiznis1-source/sales-tracker/internal/server"
	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
	"github.com/mladjabiznis1-source/sales-tracker/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newRepositories,
			newSessionStore,
			newSessionCodec,
			service.NewAuthService,
			service.NewEntryService,
			service.NewFormService,
			newAuthMiddleware,
			newRateLimiter,
			newHealthHandler,
			handler.NewAuthHandler,
			handler.NewEntryHandler,
			handler.NewWebhookHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureSeedUser, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

// newRepositories opens the configured relational backend: Postgres when
// DATABASE_URL is set, a local SQLite file otherwise. The schema is applied
// idempotently on open in both cases.
func newRepositories(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.UserRepository, repository.EntryRepository, repository.SubmissionRepository, error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := repository.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				pool.Close()
				return nil
			},
		})

		logger.Info("database ready", zap.String("backend", "postgres"))
		return repository.NewPostgresUserRepo(pool),
			repository.NewPostgresEntryRepo(pool),
			repository.NewPostgresSubmissionRepo(pool),
			nil
	}

	db, err := repository.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})

	logger.Info("database ready", zap.String("backend", "sqlite"), zap.String("path", cfg.SQLitePath))
	return repository.NewSQLiteUserRepo(db),
		repository.NewSQLiteEntryRepo(db),
		repository.NewSQLiteSubmissionRepo(db),
		nil
}

// newSessionStore backs sessions with Redis when configured, otherwise with
// an in-process map.
func newSessionStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (session.Store, error) {
	if cfg.RedisAddr == "" {
		logger.Info("session store ready", zap.String("backend", "memory"))
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	logger.Info("session store ready", zap.String("backend", "redis"))
	return session.NewRedisStore(client), nil
}

func newSessionCodec(cfg config.Config) *session.Codec {
	return session.NewCodec(cfg.SessionSecret)
}

func newAuthMiddleware(authService *service.AuthService, codec *session.Codec) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{AuthService: authService, Codec: codec}
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newHealthHandler(cfg config.Config) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.DatabaseKind())
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
