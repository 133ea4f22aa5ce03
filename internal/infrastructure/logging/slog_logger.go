package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rafabene/entregas-backend/internal/domain/ports"
)

// SlogLogger implementa ports.Logger usando slog do stdlib
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger cria um logger JSON em stdout no nível informado
func NewSlogLogger(level string) ports.Logger {
	return newSlogLogger(os.Stdout, ParseLevel(level))
}

// NewNopLogger cria um logger que descarta tudo (uso em testes)
func NewNopLogger() ports.Logger {
	return newSlogLogger(io.Discard, slog.LevelError)
}

func newSlogLogger(w io.Writer, level slog.Level) ports.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// ParseLevel converte o nível textual; valores desconhecidos viram info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) With(args ...any) ports.Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
	}
}
