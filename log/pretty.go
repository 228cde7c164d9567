package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized key=value lines for interactive terminals.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	prefix     string
	attrs      []byte
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(colorGray)
			buf.WriteString(ts)
			buf.WriteString(colorReset)
			buf.WriteByte(' ')
		}
	}

	writeLevel(buf, r.Level)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(buf, " %s%s:%d%s", colorGray, src.File, src.Line, colorReset)
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(bytes.Clone(h.attrs))
	for _, a := range attrs {
		writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func writeLevel(buf *bytes.Buffer, level slog.Level) {
	switch {
	case level >= slog.LevelError:
		buf.WriteString(colorRed)
	case level >= slog.LevelWarn:
		buf.WriteString(colorYellow)
	case level >= slog.LevelInfo:
		buf.WriteString(colorGreen)
	default:
		buf.WriteString(colorBlue)
	}

	fmt.Fprintf(buf, "%-5s", Level(level).String())
	buf.WriteString(colorReset)
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			writeAttr(buf, prefix, g)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(colorGray)
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeValue(buf, a.Value)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, v.String()

	switch v.Kind() {
	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}
	case slog.KindDuration:
		color = colorMagenta
	case slog.KindTime:
		color = colorBlue
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}
