package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// LogLevel is the user facing level setting shared by the slog and zap
// backends.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var slogLevels = [...]slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func (l LogLevel) slog() slog.Level {
	if l < LogLevelDebug || int(l) >= len(slogLevels) {
		return slog.LevelInfo
	}

	return slogLevels[l]
}

// String returns DEBUG, INFO, WARN or ERROR.
func (l LogLevel) String() string { return l.slog().String() }

// ParseLevel maps "debug", "info", "warn" and "error" to a LogLevel.
// Anything else yields LogLevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is the minimal logging interface every component accepts.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// OperationLogger is implemented by loggers that time engine operations.
type OperationLogger interface {
	StartTimer(op string) func(err error)
}

// CompletionLogger is implemented by loggers that record model calls.
type CompletionLogger interface {
	LogCompletion(model string, dur time.Duration, err error)
}

// StackLogger is implemented by loggers that can attach a stack trace.
type StackLogger interface {
	ErrorWithStack(err error, msg string, args ...any)
}

// LoggerConfig configures construction of an EngineLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	// Attrs are attached to every entry.
	Attrs map[string]any
}

// DefaultLoggerConfig returns JSON output at info level on stderr.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr}
}

// EngineLogger is the slog backed Logger used by the engine. The With*
// helpers return derived loggers and never modify the receiver.
type EngineLogger struct {
	logger *slog.Logger
}

// NewLogger builds an EngineLogger from cfg, or from DefaultLoggerConfig when
// cfg is nil.
func NewLogger(cfg *LoggerConfig) *EngineLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slog(), AddSource: cfg.AddSource}

	var h slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, opts)
	}

	l := slog.New(h)
	for k, v := range cfg.Attrs {
		l = l.With(k, v)
	}

	return &EngineLogger{logger: l}
}

// NewSlogLogger creates an EngineLogger writing to stderr.
func NewSlogLogger(level LogLevel, format string, addSource bool) *EngineLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.AddSource = addSource

	if format != "" {
		cfg.Format = format
	}

	return NewLogger(cfg)
}

// FromSlog wraps an existing slog logger. A nil logger uses slog.Default().
func FromSlog(l *slog.Logger) *EngineLogger {
	if l == nil {
		l = slog.Default()
	}

	return &EngineLogger{logger: l}
}

// WithContext attaches key=value to every entry of the derived logger.
func (l *EngineLogger) WithContext(key string, value any) *EngineLogger {
	return &EngineLogger{logger: l.logger.With(key, value)}
}

// WithComponent tags entries with the engine component (validation, vote, ...).
func (l *EngineLogger) WithComponent(c string) *EngineLogger { return l.WithContext("component", c) }

// WithAgent tags entries with the acting agent id.
func (l *EngineLogger) WithAgent(agentID string) *EngineLogger {
	return l.WithContext("agent_id", agentID)
}

// WithOperation tags entries with the engine operation name.
func (l *EngineLogger) WithOperation(op string) *EngineLogger {
	return l.WithContext("operation", op)
}

func (l *EngineLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

func (l *EngineLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

func (l *EngineLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

func (l *EngineLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// ErrorWithStack logs err at error level together with the calling
// goroutine's stack.
func (l *EngineLogger) ErrorWithStack(err error, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, slog.LevelError) {
		return
	}

	buf := make([]byte, 4096)
	buf = buf[:runtime.Stack(buf, false)]

	args = append(args,
		"error", err.Error(),
		"error_type", fmt.Sprintf("%T", err),
		"stack_trace", string(buf),
	)

	l.logger.ErrorContext(ctx, msg, args...)
}

// LogOperation records latency and outcome of an engine operation as
// operation.completed or operation.failed.
func (l *EngineLogger) LogOperation(op string, dur time.Duration, err error) {
	l.outcome("operation", slog.LevelError, err, "op", op, "duration", dur)
}

// LogCompletion records a call against an external model. Failures are
// warnings since synthesis degrades instead of failing.
func (l *EngineLogger) LogCompletion(model string, dur time.Duration, err error) {
	l.outcome("completion", slog.LevelWarn, err, "model", model, "duration", dur)
}

// StartTimer returns a func that logs the elapsed time of op with its error.
func (l *EngineLogger) StartTimer(op string) func(err error) {
	start := time.Now()

	return func(err error) { l.LogOperation(op, time.Since(start), err) }
}

func (l *EngineLogger) outcome(event string, failLevel slog.Level, err error, args ...any) {
	level, msg := slog.LevelInfo, event+".completed"

	args = append(args, "success", err == nil)
	if err != nil {
		level, msg = failLevel, event+".failed"
		args = append(args, "error", err.Error())
	}

	l.logger.Log(context.Background(), level, msg, args...)
}

// NoOpLogger discards everything. It is the default for every component.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}

	return l
}
