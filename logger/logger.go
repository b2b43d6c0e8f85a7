// Package logger holds the process-wide structured logger. It is a no-op
// until Initialize is called, so library code can log unconditionally.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldChart      = "chart"
	FieldChartType  = "chart_type"
	FieldContainer  = "container_id"
	FieldURL        = "url"
	FieldQuery      = "query"
	FieldReason     = "reason"
	FieldError      = "error"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatus     = "status"
	FieldAddress    = "address"
	FieldFile       = "file"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldInterval   = "interval"
)

var (
	// Logger is the global logger.
	Logger *zap.SugaredLogger
	// JSONOutput reports whether Initialize selected JSON output.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output targets machines; the
// console form is for terminals. level accepts zap level names; an empty or
// unknown level means info.
func Initialize(jsonOutput bool, level string) error {
	lvl := zap.InfoLevel
	if level != "" {
		if l, err := zapcore.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	JSONOutput = jsonOutput

	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		zl, err := cfg.Build()
		if err != nil {
			return err
		}
		Logger = zl.Sugar()
		return nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	Logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr),
		lvl,
	)).Sugar()
	return nil
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// ComponentLogger returns a named logger for a component, e.g. "chart" or
// "server". Inject the result instead of calling the globals in hot paths.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

type contextKey string

const requestIDKey contextKey = "logger_request_id"

// WithRequestID adds a request ID to ctx for logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// FromContext returns base enriched with the fields carried by ctx.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	if ctx == nil {
		return base
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return base.With(FieldRequestID, id)
	}
	return base
}

// Infow logs an info message with structured fields.
func Infow(msg string, keysAndValues ...any) { Logger.Infow(msg, keysAndValues...) }

// Warnw logs a warning message with structured fields.
func Warnw(msg string, keysAndValues ...any) { Logger.Warnw(msg, keysAndValues...) }

// Errorw logs an error message with structured fields.
func Errorw(msg string, keysAndValues ...any) { Logger.Errorw(msg, keysAndValues...) }

// Debugw logs a debug message with structured fields.
func Debugw(msg string, keysAndValues ...any) { Logger.Debugw(msg, keysAndValues...) }
