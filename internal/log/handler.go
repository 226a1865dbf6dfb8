package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler is a slog.Handler that writes one coloured line per record:
// time, level, optional source, message and flattened attributes.
type Handler struct {
	opts      slog.HandlerOptions
	prefix    string
	preformat string
	mu        *sync.Mutex
	w         io.Writer
	// CloudWatch stamps every line itself.
	omitTime bool
}

// New returns a Handler writing to w. A nil opts logs at info level.
func New(w io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{w: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	buf := make([]byte, 0, 1024)

	if !h.omitTime && !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, time.RFC3339)
		buf = append(buf, ' ')
	}

	buf = append(buf, levelString(r.Level)...)
	buf = append(buf, ' ')
	if h.opts.AddSource && r.PC != 0 {
		fr := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fr.Next()
		buf = append(buf, f.File...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(f.Line), 10)
		buf = append(buf, ' ')
	}
	buf = append(buf, color.CyanString(r.Message)...)
	buf = append(buf, h.preformat...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func levelString(l slog.Level) string {
	s := l.String()
	switch {
	case l >= slog.LevelError:
		return color.RedString(s)
	case l >= slog.LevelWarn:
		return color.YellowString(s)
	case l >= slog.LevelInfo:
		return color.CyanString(s)
	default:
		return color.MagentaString(s)
	}
}

func (h *Handler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() != slog.KindGroup {
		buf = append(buf, ' ')
		buf = append(buf, prefix...)
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		return fmt.Appendf(buf, "%v", a.Value.Any())
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}
	for _, a := range a.Value.Group() {
		buf = h.appendAttr(buf, prefix, a)
	}
	return buf
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf []byte
	for _, a := range attrs {
		buf = h.appendAttr(buf, h.prefix, a)
	}
	return &Handler{
		w:         h.w,
		mu:        h.mu,
		opts:      h.opts,
		prefix:    h.prefix,
		preformat: h.preformat + string(buf),
		omitTime:  h.omitTime,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		w:         h.w,
		mu:        h.mu,
		opts:      h.opts,
		preformat: h.preformat,
		prefix:    h.prefix + name + ".",
		omitTime:  h.omitTime,
	}
}
