package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCustomHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(Options{Writer: &buf, NoColor: true, Level: slog.LevelDebug}))

	log.With(slog.String("request_id", "r1")).Info("Listing created",
		slog.String("type", "market"),
		slog.String("listing_id", "l1"),
	)
	got := buf.String()
	for _, want := range []string{"[StoryDeck]", "[INFO]", "[MKT]", "Listing created", "request_id=r1", "listing_id=l1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Handle() output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "type=") {
		t.Errorf("Handle() output %q leaks the type attribute", got)
	}
}

func TestCustomHandler_Error(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(Options{Writer: &buf, NoColor: true}))

	log.Error("Query failed", slog.String("type", "db"), slog.Any("error", errors.New("deadlock")))
	got := buf.String()
	if !strings.Contains(got, "[ERROR] [DB] Query failed: deadlock") {
		t.Errorf("Handle() output = %q", got)
	}
}

func TestCustomHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(Options{Writer: &buf, NoColor: true, Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Handle() wrote %q below the configured level", buf.String())
	}
	log.WithGroup("db").Warn("slow", slog.Int("ms", 900))
	if !strings.Contains(buf.String(), "db.ms=900") {
		t.Errorf("Handle() output = %q, want grouped key", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
