package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestQueryLogger_Log(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		age       time.Duration
		wantLevel string
	}{
		{name: "Fast", wantLevel: "level=DEBUG"},
		{name: "Slow", age: time.Second, wantLevel: "level=WARN"},
		{name: "Failed", err: errors.New("deadlock detected"), wantLevel: "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureDefault(t)
			ql := NewQueryLogger("update_listing", "UPDATE listings")
			ql.StartTime = ql.StartTime.Add(-tt.age)
			ql.Log(tt.err, 1)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("Log() output %q, want %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, "operation=update_listing") {
				t.Errorf("Log() output %q missing operation", out)
			}
		})
	}
}
