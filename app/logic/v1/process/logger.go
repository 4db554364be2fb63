package process

import (
	"fmt"
	"log/slog"
)

// cronLogger 将 robfig/cron 的日志输出到 slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, append([]any{slog.String("component", "cron")}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append([]any{slog.String("component", "cron"), slog.Any("error", err)}, keysAndValues...)...)
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) {
	slog.Debug(fmt.Sprint(args...), slog.String("component", "asynq"))
}

func (asynqLogger) Info(args ...any) {
	slog.Info(fmt.Sprint(args...), slog.String("component", "asynq"))
}

func (asynqLogger) Warn(args ...any) {
	slog.Warn(fmt.Sprint(args...), slog.String("component", "asynq"))
}

func (asynqLogger) Error(args ...any) {
	slog.Error(fmt.Sprint(args...), slog.String("component", "asynq"))
}

func (asynqLogger) Fatal(args ...any) {
	slog.Error(fmt.Sprint(args...), slog.String("component", "asynq"))
}
