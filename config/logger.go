package config

import (
	"log/slog"
	"os"
	"strings"
)

// _Logger는 cmd 트리 밖의 인프라 패키지(eventbus, db 등)가 쓰는
// 최소 로거 인터페이스다. 게이트웨이 본체는 cmd/internal/logger를 쓴다.
type _Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) _Logger
}

// Logger는 설정된 레벨의 JSON 로거를 반환한다.
func Logger() _Logger {
	switch strings.ToLower(GetConfig().Logging.Level) {
	case "debug":
		return NewLogger(slog.LevelDebug)
	case "warn":
		return NewLogger(slog.LevelWarn)
	case "error":
		return NewLogger(slog.LevelError)
	default:
		return NewLogger(slog.LevelInfo)
	}
}

type slogLogger struct {
	logger *slog.Logger
}

func NewLogger(level slog.Level) _Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *slogLogger) With(args ...any) _Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}
