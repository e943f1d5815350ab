// Package logger provides the process-wide structured logger, built on
// log/slog.
//
// WithCtx returns the per-request logger injected by middleware.Logger, so
// every line a resolver or service writes carries the request id:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=...
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// L is the base logger. It starts as a debug-level text logger so packages
// can log before Setup runs (tests, CLI bootstrap).
var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Options controls Setup.
type Options struct {
	Production bool
	Output     io.Writer // defaults to os.Stdout

	// Mongo sink; disabled when MongoURI is empty.
	MongoURI        string
	MongoDB         string
	MongoCollection string
}

// Setup builds the base logger from opts, installs it as L and as the slog
// default, and returns a function that flushes and closes any sinks.
//
// Production logs are JSON at INFO; everything else is text at DEBUG.
func Setup(opts Options) (func(), error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if opts.Production {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	closeFn := func() {}
	if opts.MongoURI != "" {
		mh, err := NewMongoHandler(opts.MongoURI, opts.MongoDB, opts.MongoCollection)
		if err != nil {
			return closeFn, fmt.Errorf("logger: %w", err)
		}
		handler = NewMultiHandler(handler, mh)
		closeFn = mh.Close
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return closeFn, nil
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
