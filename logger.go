package scripthost

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// NewLogger returns a logger that writes to f with colorized output if f is
// a terminal.
func NewLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(f, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(f.Fd()),
	}))
}

// NewJSONLogger returns a logger that writes to f in JSON format.
func NewJSONLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
}

// ParseLogLevel parses a level name such as "debug" or "warn". An empty
// string means info.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
