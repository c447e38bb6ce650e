package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeSystem LogType = "SYS"
	TypeDB     LogType = "DB"
	TypeHTTP   LogType = "HTTP"
	TypeMarket LogType = "MKT"
	TypeError  LogType = "ERR"
)

// Options tune the CustomHandler. The zero value logs Info and above to
// stdout with colors.
type Options struct {
	Level     slog.Leveler
	Writer    io.Writer
	NoColor   bool
	AddSource bool
}

// CustomHandler renders records as
//
//	[StoryDeck] [15:04:05] [LEVEL] [TYPE] message key=value ...
//
// where TYPE comes from the record's "type" attribute.
type CustomHandler struct {
	opts  Options
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewHandler(opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &CustomHandler{opts: opts, mu: &sync.Mutex{}}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	if c.group != "" {
		c.group += "."
	}
	c.group += name
	return &c
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)
		return true
	})

	logType := TypeSystem
	var errText string
	var b strings.Builder
	for _, a := range attrs {
		switch a.Key {
		case "type":
			logType = parseLogType(a.Value.String())
			continue
		case "error":
			errText = fmt.Sprint(a.Value.Any())
			continue
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}

	message := r.Message
	if r.Level >= slog.LevelError {
		if h.opts.AddSource && r.PC != 0 {
			frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
			message = fmt.Sprintf("%s (%s:%d)", message, filepath.Base(frame.File), frame.Line)
		}
	}
	if errText != "" {
		message = fmt.Sprintf("%s: %s", message, errText)
	}

	levelColor, levelText := levelStyle(r.Level)
	white, reset := colorWhite, colorReset
	if h.opts.NoColor {
		levelColor, white, reset = "", "", ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.opts.Writer, "%s[StoryDeck] [%s] [%s%s%s] [%s] %s%s%s\n",
		white,
		r.Time.Format("15:04:05"),
		levelColor,
		levelText,
		white,
		logType,
		message,
		b.String(),
		reset,
	)
	return err
}

func (h *CustomHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

func parseLogType(v string) LogType {
	switch v {
	case "db":
		return TypeDB
	case "http":
		return TypeHTTP
	case "market":
		return TypeMarket
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

// ParseLevel maps a config string to a slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default slog logger: a CustomHandler, or slog's JSON
// handler when format is "json".
func Setup(level, format string, addSource bool) {
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     ParseLevel(level),
			AddSource: addSource,
		})
	} else {
		handler = NewHandler(Options{
			Level:     ParseLevel(level),
			AddSource: addSource,
			NoColor:   os.Getenv("NO_COLOR") != "",
		})
	}
	slog.SetDefault(slog.New(handler))
}
