package scripthost

import (
	"context"
	"io"
	"log/slog"

	lua "github.com/yuin/gopher-lua"
)

type ContextKey string

const (
	ManagerContextKey ContextKey = "manager"
	LoggerContextKey  ContextKey = "logger"
)

func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ManagerContextKey, m)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

func GetManagerFromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(ManagerContextKey).(*Manager)
	return m, ok
}

func GetLoggerFromContext(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger)
	return logger, ok
}

// FromState returns the Manager that owns L. Native functions use it to call
// back into the evaluator without reaching for global state.
func FromState(L *lua.LState) (*Manager, bool) {
	ctx := L.Context()
	if ctx == nil {
		return nil, false
	}
	return GetManagerFromContext(ctx)
}

// LoggerFromState returns the logger of the Manager that owns L, or a
// discarding logger when L is not managed.
func LoggerFromState(L *lua.LState) *slog.Logger {
	if ctx := L.Context(); ctx != nil {
		if logger, ok := GetLoggerFromContext(ctx); ok {
			return logger
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
