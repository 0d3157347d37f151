package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is a custom log level for trace logs.
const LevelTrace = slog.LevelDebug - 4

// Level names and colors
var levelNames = map[slog.Level]string{
	LevelTrace:      "TRACE",
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO ",
	slog.LevelWarn:  "WARN ",
	slog.LevelError: "ERROR",
}

var levelColors = map[slog.Level]*color.Color{
	LevelTrace:      color.New(color.FgMagenta),
	slog.LevelDebug: color.New(color.FgBlue),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
}

// CustomHandler is a custom slog handler for pretty printing.
type CustomHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	prefix string // pre-rendered attrs from WithAttrs
	group  string
}

func NewCustomHandler(w io.Writer, opts slog.HandlerOptions) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &CustomHandler{mu: &sync.Mutex{}, w: w, opts: opts}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	levelName := levelNames[r.Level]
	if levelName == "" {
		levelName = r.Level.String()
	}

	levelStr := levelName
	if c := levelColors[r.Level]; c != nil {
		levelStr = c.Sprint(levelName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s > %s", r.Time.Format("15:04:05.000"), levelStr, r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	h2 := *h
	h2.prefix = h.prefix + b.String()
	return &h2
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h.group != "" {
		h2.group = h.group + "." + name
	} else {
		h2.group = name
	}
	return &h2
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value)
}

// Options selects the console level and the optional rotated log file.
type Options struct {
	Debug   bool
	Trace   bool
	LogFile string
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int
}

// InitDefaultLogger initializes the global logger. It returns a closer for the
// log file, which is a no-op when no file is configured.
func InitDefaultLogger(opts Options) io.Closer {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	if opts.Trace {
		level = LevelTrace
	}

	var writer io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	// only write to file if user set logfile path
	if opts.LogFile != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		lj := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    maxSize,
			MaxBackups: 3,
		}
		writer = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	handler := NewCustomHandler(writer, slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
