package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sales-dashboard/internal/config"
)

func testServer() *GracefulServer {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	return NewGracefulServer(httpServer, logger, config.ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 5 * time.Second,
	})
}

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	gs := testServer()

	var calls atomic.Int32
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	if err := gs.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("hooks run = %d, want 3", calls.Load())
	}
}

func TestGracefulServer_ShutdownJoinsErrors(t *testing.T) {
	gs := testServer()
	errA := errors.New("flush failed")
	errB := errors.New("close failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return errA })
	gs.RegisterShutdownHook(func(ctx context.Context) error { return nil })
	gs.RegisterShutdownHook(func(ctx context.Context) error { return errB })

	err := gs.Shutdown(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both hook failures", err)
	}
}

func TestGracefulServer_ListenAndServeStopsOnCancel(t *testing.T) {
	gs := testServer()

	stopped := make(chan struct{})
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		close(stopped)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}

	select {
	case <-stopped:
	default:
		t.Error("shutdown hook was not run")
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	gs := testServer()
	gs.server.Addr = "256.0.0.1:bad"

	err := gs.ListenAndServe(context.Background())
	if err == nil || !strings.Contains(err.Error(), "server failed") {
		t.Errorf("ListenAndServe() error = %v, want listen failure", err)
	}
}
