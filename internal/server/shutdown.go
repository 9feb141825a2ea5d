package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/config"
)

const hookTimeout = 10 * time.Second

type ShutdownHook func(ctx context.Context) error

// GracefulServer serves until its context is cancelled or SIGINT/SIGTERM
// arrives, then drains the HTTP server and runs hooks concurrently.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config config.ServerConfig
	hooks  []ShutdownHook
	mu     sync.RWMutex
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, cfg config.ServerConfig) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: cfg,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn ShutdownHook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, fn)
}

func (gs *GracefulServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		gs.logger.Info("listening", "addr", gs.server.Addr, "read_timeout", gs.config.ReadTimeout, "write_timeout", gs.config.WriteTimeout)
		serverErrors <- gs.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		gs.logger.Info("shutdown requested", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gs.config.ShutdownTimeout)
		defer cancel()

		return gs.Shutdown(shutdownCtx)
	}
}

type shutdownStep struct {
	name string
	run  func(context.Context) error
}

// steps lists every registered hook, each bounded by hookTimeout, followed by
// draining the HTTP server.
func (gs *GracefulServer) steps() []shutdownStep {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	steps := make([]shutdownStep, 0, len(gs.hooks)+1)
	for i, hook := range gs.hooks {
		steps = append(steps, shutdownStep{
			name: fmt.Sprintf("shutdown hook %d", i),
			run: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, hookTimeout)
				defer cancel()
				return hook(ctx)
			},
		})
	}
	return append(steps, shutdownStep{name: "HTTP server shutdown", run: gs.server.Shutdown})
}

// Shutdown runs every step concurrently and returns all failures joined.
func (gs *GracefulServer) Shutdown(ctx context.Context) error {
	steps := gs.steps()
	gs.logger.Info("graceful shutdown", "steps", len(steps), "timeout", gs.config.ShutdownTimeout)

	errs := make([]error, len(steps))
	var g errgroup.Group
	for i, step := range steps {
		g.Go(func() error {
			if err := step.run(ctx); err != nil {
				gs.logger.Error("shutdown step failed", "step", step.name, "error", err)
				errs[i] = fmt.Errorf("%s: %w", step.name, err)
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		gs.logger.Info("graceful shutdown completed")
		return errors.Join(errs...)
	case <-ctx.Done():
		gs.logger.Warn("shutdown deadline exceeded", "cause", context.Cause(ctx))
		return ctx.Err()
	}
}
