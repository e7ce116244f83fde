package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/mintmind/internal/adapter/provider/abv"
	"github.com/heartmarshall/mintmind/internal/adapter/provider/story"
	"github.com/heartmarshall/mintmind/internal/adapter/wallet"
	"github.com/heartmarshall/mintmind/internal/adapter/wallet/ethrpc"
	"github.com/heartmarshall/mintmind/internal/config"
	"github.com/heartmarshall/mintmind/internal/domain"
	"github.com/heartmarshall/mintmind/internal/service/appstate"
	"github.com/heartmarshall/mintmind/internal/service/assetstore"
	"github.com/heartmarshall/mintmind/internal/service/settings"
	"github.com/heartmarshall/mintmind/internal/transport/middleware"
	"github.com/heartmarshall/mintmind/internal/transport/rest"
)

// Run is the application entry point. It loads configuration and serves
// until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return Serve(ctx, cfg)
}

// Serve wires every component from cfg, starts the HTTP server and the
// wallet watcher, and shuts both down when ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("generation_mock", cfg.Generation.UsesMock()),
		slog.Bool("registration_mock", cfg.Registration.UsesMock()),
	)

	store, closeStore, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStore()

	// A nil interface, not a nil *ethrpc.Provider, means "no wallet".
	var (
		provider wallet.Provider
		watcher  *ethrpc.Provider
	)
	if cfg.Wallet.RPCURL != "" {
		p, err := ethrpc.Dial(ctx, cfg.Wallet.RPCURL, ethrpc.FlagsFor(cfg.Wallet.Flavor), logger)
		if err != nil {
			return fmt.Errorf("dial wallet provider: %w", err)
		}
		defer p.Close()
		provider, watcher = p, p
	} else {
		logger.Info("no wallet provider configured")
	}

	clock := clockwork.NewRealClock()
	c := build(logger, cfg, store, provider, clock)
	defer c.close()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      c.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	// Shutdown waits for active requests; event streams must be told to end.
	srv.RegisterOnShutdown(c.api.CloseStreams)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if watcher != nil {
		g.Go(func() error {
			return watcher.Watch(gctx, cfg.Wallet.PollInterval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// components is the wired object graph behind the HTTP handler.
type components struct {
	state   *appstate.Store
	limiter *middleware.RateLimiter
	api     *rest.Handler
	handler http.Handler
}

func (c *components) close() {
	c.limiter.Stop()
	c.state.Close()
}

func build(logger *slog.Logger, cfg *config.Config, store KV, provider wallet.Provider, clock clockwork.Clock) *components {
	registry := story.NewClient(cfg.Registration, logger)
	connector := wallet.NewConnector(provider, logger)

	state := appstate.New(
		logger,
		abv.NewClient(cfg.Generation, logger),
		registry,
		connector,
		assetstore.New(store, logger),
		settings.New(store, domain.Theme(cfg.App.DefaultTheme), logger),
		clock,
		cfg.App,
	)

	limiter := middleware.NewRateLimiter(clock, cfg.RateLimit.CleanupInterval)

	health := rest.NewHealthHandler(store, cfg.Storage.Driver, BuildVersion())
	api := rest.NewHandler(logger, state, connector, registry, clock)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	api.Mount(mux, limiter.Limit(cfg.RateLimit.GeneratePerMinute))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	return &components{state: state, limiter: limiter, api: api, handler: handler}
}
