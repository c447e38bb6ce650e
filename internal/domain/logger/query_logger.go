package logger

import (
	"context"
	"log/slog"
	"time"
)

// SlowQueryThreshold promotes successful queries from Debug to Warn.
var SlowQueryThreshold = 250 * time.Millisecond

type QueryLogger struct {
	Operation string
	Query     string
	StartTime time.Time
}

func NewQueryLogger(operation, query string) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Query:     query,
		StartTime: time.Now(),
	}
}

func (l *QueryLogger) Log(err error, rowsAffected int64) {
	took := time.Since(l.StartTime)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", l.Operation),
			slog.String("query", l.Query),
			slog.Duration("took", took),
			slog.Any("error", err),
		)
		return
	}

	level := slog.LevelDebug
	if took > SlowQueryThreshold {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Query executed",
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.Duration("took", took),
		slog.Int64("affected_rows", rowsAffected),
	)
}
