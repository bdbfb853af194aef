package logginghelpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Options struct {
	AddSource bool
	Level     slog.Leveler
	NoColor   bool
}

// Handler writes one colored line per record:
//
//	15:04:05 INFO  message key=value
type Handler struct {
	opts   Options
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	attrs  string

	timeColor   *color.Color
	keyColor    *color.Color
	levelColors map[slog.Level]*color.Color
}

func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	h := &Handler{
		opts:      *opts,
		w:         w,
		mu:        &sync.Mutex{},
		timeColor: color.New(color.Faint),
		keyColor:  color.New(color.FgCyan),
		levelColors: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgMagenta),
			LevelReportIO:   color.New(color.FgBlue),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	colors := append([]*color.Color{h.timeColor, h.keyColor}, mapValues(h.levelColors)...)
	for _, c := range colors {
		if h.opts.NoColor {
			c.DisableColor()
		} else {
			// the websocket stream is not a terminal but still wants colors
			c.EnableColor()
		}
	}
	return h
}

func mapValues(m map[slog.Level]*color.Color) []*color.Color {
	values := make([]*color.Color, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	return values
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.timeColor.Sprint(r.Time.Format(time.TimeOnly)))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.levelColor(r.Level).Sprintf("%-5s", levelName(r.Level)))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		buf.WriteString(h.timeColor.Sprintf(" %s:%d", filepath.Base(frame.File), frame.Line))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// closest configured color at or below level
func (h *Handler) levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return h.levelColors[slog.LevelError]
	case level >= slog.LevelWarn:
		return h.levelColors[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return h.levelColors[slog.LevelInfo]
	case level >= LevelReportIO:
		return h.levelColors[LevelReportIO]
	default:
		return h.levelColors[slog.LevelDebug]
	}
}

func (h *Handler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, groupPrefix, ga)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(h.keyColor.Sprint(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindTime {
		s = v.Time().Format(time.RFC3339)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}
	clone := *h
	clone.attrs = h.attrs + buf.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
