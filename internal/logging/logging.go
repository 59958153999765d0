// Package logging builds the zap logger for quoted. The TUI owns the terminal,
// so logs go to a file as JSON lines.
package logging

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where the logger writes.
type Options struct {
	Path    string // log file; empty disables the file sink
	Verbose bool   // tee to stderr
	Debug   bool
}

// New returns a JSON logger for opts and a func that closes the log file.
// With neither a path nor Verbose the logger discards everything.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Debug {
		level.SetLevel(zap.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	closeFile := func() {}
	var cores []zapcore.Core
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create log directory", goerr.V("path", opts.Path))
		}
		sink, closeSink, err := zap.Open(opts.Path)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", opts.Path))
		}
		closeFile = closeSink
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level))
	}
	if opts.Verbose {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), closeFile, nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), closeFile, nil
}

// Error logs err at error level. Values attached with goerr are emitted as a
// "values" field.
func Error(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if logger == nil || err == nil {
		return
	}
	logger.Error(msg, errorFields(err, fields)...)
}

// Warn is Error at warn level.
func Warn(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if logger == nil || err == nil {
		return
	}
	logger.Warn(msg, errorFields(err, fields)...)
}

func errorFields(err error, fields []zap.Field) []zap.Field {
	fields = append(fields, zap.Error(err))
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if values := ge.Values(); len(values) > 0 {
			fields = append(fields, zap.Any("values", values))
		}
	}
	return fields
}

type ctxKey struct{}

// With returns a context carrying logger.
func With(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger carried by ctx, or a no-op logger.
func From(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}
