// Package runtime builds the bank products server from configuration and
// manages its lifecycle.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	app "github.com/R3E-Network/bankproducts/internal/app"
	"github.com/R3E-Network/bankproducts/internal/app/httpapi"
	"github.com/R3E-Network/bankproducts/internal/app/metrics"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
	"github.com/R3E-Network/bankproducts/internal/app/storage/memory"
	"github.com/R3E-Network/bankproducts/internal/app/storage/postgres"
	redisstore "github.com/R3E-Network/bankproducts/internal/app/storage/redis"
	"github.com/R3E-Network/bankproducts/internal/config"
	"github.com/R3E-Network/bankproducts/internal/logging"
	"github.com/R3E-Network/bankproducts/internal/middleware"
	"github.com/R3E-Network/bankproducts/internal/platform/database"
	"github.com/R3E-Network/bankproducts/internal/platform/migrations"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	limiterCleanupInterval = 5 * time.Minute
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg     *config.Config
	log     *logging.Logger
	app     *app.Application
	handler http.Handler
	server  *http.Server
	limiter *middleware.RateLimiter

	db    *sqlx.DB
	redis *goredis.Client

	mu       sync.Mutex
	listener net.Listener
}

// NewApplication constructs the application described by cfg. A nil cfg
// uses config.Default.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.NewFromConfig("bankproducts", logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	a := &Application{cfg: cfg, log: log}

	store, err := a.buildStore(ctx)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("configure store: %w", err)
	}
	if cfg.Metrics.Enabled {
		store = metrics.InstrumentStore(store)
	}

	a.app = app.New(app.Stores{BankProducts: store}, log)
	a.handler = a.buildHandler()
	a.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return a, nil
}

// App exposes the composed services.
func (a *Application) App() *app.Application {
	return a.app
}

// Handler returns the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// Addr returns the bound listen address once Run has started listening, or
// the configured address before that.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.server.Addr
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	if a.limiter != nil {
		a.limiter.StartCleanup(ctx, limiterCleanupInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", ln.Addr().String()).
			WithField("driver", a.cfg.Database.Driver).
			Info("HTTP server listening")
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server and releases storage clients.
func (a *Application) Shutdown(ctx context.Context) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.closeStores()
	if err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.log.Info("HTTP server stopped")
	return nil
}

func (a *Application) buildHandler() http.Handler {
	handler := httpapi.NewHandler(a.app, httpapi.Options{Metrics: a.cfg.Metrics.Enabled})

	if a.cfg.RateLimit.Enabled {
		a.limiter = middleware.NewRateLimiter(a.cfg.RateLimit.RequestsPerSecond, a.cfg.RateLimit.Burst, a.log)
		handler = a.limiter.Handler(handler)
	}
	handler = middleware.NewCORSMiddleware(a.cfg.CORS.AllowedOrigins).Handler(handler)
	handler = middleware.Recovery(a.log)(handler)
	handler = middleware.NewTracingMiddleware(a.log).Handler(handler)
	return handler
}

func (a *Application) buildStore(ctx context.Context) (storage.BankProductStore, error) {
	switch a.cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.Open(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		if a.cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, db.DB); err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return postgres.New(db), nil

	case config.DriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.redis = client
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.New(client, a.cfg.Redis.KeyPrefix), nil

	default:
		return memory.New(), nil
	}
}

func (a *Application) closeStores() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
		a.db = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("error closing redis connection")
		}
		a.redis = nil
	}
}
