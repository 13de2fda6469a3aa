package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"insights-chat/internal/config"
)

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

// GracefulServer serves until SIGINT/SIGTERM, drains in-flight requests and
// only then runs its shutdown hooks, so hooks observe every finished query.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config config.ServerConfig
	hooks  []shutdownHook
	mu     sync.Mutex
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, cfg config.ServerConfig) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: cfg,
	}
}

// RegisterShutdownHook adds a hook. Hooks run one at a time in registration
// order after the HTTP server has stopped.
func (gs *GracefulServer) RegisterShutdownHook(name string, fn func(ctx context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, shutdownHook{name: name, fn: fn})
}

func (gs *GracefulServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", gs.server.Addr, err)
	}
	return gs.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down within
// the configured timeout.
func (gs *GracefulServer) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		gs.logger.Info("starting server",
			"addr", ln.Addr().String(),
			"read_timeout", gs.config.ReadTimeout,
			"write_timeout", gs.config.WriteTimeout,
		)
		serverErrors <- gs.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		gs.logger.Info("shutdown signal received", "cause", context.Cause(ctx))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gs.config.ShutdownTimeout)
	defer cancel()

	return gs.shutdown(shutdownCtx)
}

func (gs *GracefulServer) shutdown(ctx context.Context) error {
	gs.logger.Info("draining in-flight requests", "timeout", gs.config.ShutdownTimeout)

	var errs []error
	if err := gs.server.Shutdown(ctx); err != nil {
		gs.logger.Error("HTTP server shutdown failed", "error", err)
		errs = append(errs, fmt.Errorf("HTTP server shutdown failed: %w", err))
	} else {
		gs.logger.Info("HTTP server stopped gracefully")
	}

	gs.mu.Lock()
	hooks := slices.Clone(gs.hooks)
	gs.mu.Unlock()

	for _, hook := range hooks {
		gs.logger.Debug("executing shutdown hook", "hook", hook.name)
		if err := hook.fn(ctx); err != nil {
			gs.logger.Error("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, fmt.Errorf("shutdown hook %q failed: %w", hook.name, err))
			continue
		}
		gs.logger.Debug("shutdown hook completed", "hook", hook.name)
	}

	gs.logger.Info("graceful shutdown completed")
	return errors.Join(errs...)
}
