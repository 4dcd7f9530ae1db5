package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/taskforge/task-api/docs"
	"github.com/taskforge/task-api/internal/api"
	"github.com/taskforge/task-api/internal/core/auth"
	"github.com/taskforge/task-api/internal/core/ports"
	"github.com/taskforge/task-api/internal/core/service"
	"github.com/taskforge/task-api/internal/infrastructure/config"
	mongostore "github.com/taskforge/task-api/internal/infrastructure/db/mongo"
	redisstore "github.com/taskforge/task-api/internal/infrastructure/db/redis"
	"github.com/taskforge/task-api/internal/infrastructure/db/sqlite"
	"github.com/taskforge/task-api/internal/infrastructure/http/handlers"
	"github.com/taskforge/task-api/internal/infrastructure/queue"
	"github.com/taskforge/task-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "task-api: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the persistence adapters selected by STORE_DRIVER.
type stores struct {
	identities ports.IdentityStore
	tasks      ports.TaskStore
	audit      ports.AuditRepository
	pinger     handlers.Pinger
	name       string
	close      func(context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "task-api",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	readiness := map[string]handlers.Pinger{st.name: st.pinger}

	// --- Core ---
	hasher, err := auth.NewBcryptHasher(cfg.HashCost)
	if err != nil {
		return fmt.Errorf("hasher: %w", err)
	}
	codec, err := auth.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, st.audit, log)
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workersCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	authOpts := []service.AuthOption{service.WithAuditRecorder(dispatcher)}
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()

		limiter := redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
		authOpts = append(authOpts, service.WithLoginThrottle(limiter))
		readiness["redis"] = redisstore.NewPinger(rdb)
		log.Info().Int("max_attempts", cfg.Login.MaxAttempts).Dur("window", cfg.Login.Window).Msg("login throttling enabled")
	}

	authService, err := service.NewAuthService(st.identities, hasher, codec, logger.Component("auth"), authOpts...)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Tasks:         service.NewTaskService(st.tasks, dispatcher, logger.Component("tasks")),
		Identities:    service.NewIdentityService(st.identities),
		Authenticator: auth.NewAuthenticator(codec, st.identities, logger.Component("authn")),
		Readiness:     readiness,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", st.name).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &stores{
			identities: db,
			tasks:      db.Tasks(),
			audit:      db,
			pinger:     db,
			name:       "sqlite",
			close:      func(context.Context) error { return db.Close() },
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return &stores{
			identities: mongostore.NewIdentityRepository(db),
			tasks:      mongostore.NewTaskRepository(db),
			audit:      mongostore.NewAuditRepository(db),
			pinger:     mongostore.NewPinger(db),
			name:       "mongodb",
			close:      client.Disconnect,
		}, nil
	}
}
