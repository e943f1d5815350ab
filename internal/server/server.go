// Package server runs the HTTP listener and the optional gRPC health server
// side by side and shuts both down when the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	shopgrpc "github.com/shashiranjanraj/shopql/pkg/grpc"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// ShutdownTimeout bounds how long in-flight HTTP requests may drain.
const ShutdownTimeout = 15 * time.Second

// Config describes what to serve.
type Config struct {
	HTTPAddr string
	Handler  http.Handler

	// GRPCAddr empty disables the gRPC server.
	GRPCAddr string
	Health   shopgrpc.Checker
}

// Run serves until ctx is cancelled or a listener fails, then drains both
// servers. A clean shutdown returns nil.
func Run(ctx context.Context, cfg Config) error {
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", cfg.HTTPAddr, err)
	}

	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		if grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("server: listen %s: %w", cfg.GRPCAddr, err)
		}
	}

	return Serve(ctx, cfg, httpLis, grpcLis)
}

// Serve is Run on listeners the caller already opened. grpcLis may be nil.
func Serve(ctx context.Context, cfg Config, httpLis, grpcLis net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g.Go(func() error {
		logger.Info("HTTP server started", "addr", httpLis.Addr().String())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("HTTP server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			return shopgrpc.New(cfg.Health).Serve(ctx, grpcLis)
		})
	}

	return g.Wait()
}
