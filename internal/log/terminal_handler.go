package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// terminalHandler renders records as single coloured lines for interactive
// use, e.g. `15:04:05.000 INF resume created resume_id=res_1a2b3c4d`.
// The JSON handler is the structured path; this one optimises for a human
// watching the serve command.
type terminalHandler struct {
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string

	// mu guards out. Shared across WithAttrs/WithGroup clones so concurrent
	// loggers never interleave partial lines.
	mu *sync.Mutex
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *terminalHandler {
	h := &terminalHandler{out: w, level: slog.LevelInfo, mu: &sync.Mutex{}}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var line bytes.Buffer

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line.WriteString(dim + ts.Format("15:04:05.000") + reset + " ")

	color, badge := levelBadge(r.Level)
	line.WriteString(color + badge + reset + " ")
	line.WriteString(bold + r.Message + reset)

	for _, a := range h.attrs {
		h.writeAttr(&line, a, h.groups)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&line, a, h.groups)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line.Bytes())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *terminalHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := groups
		if a.Key != "" {
			prefix = append(append([]string{}, groups...), a.Key)
		}
		for _, member := range a.Value.Group() {
			h.writeAttr(buf, member, prefix)
		}
		return
	}

	buf.WriteString(" " + dim)
	for _, g := range groups {
		buf.WriteString(g + ".")
	}
	buf.WriteString(a.Key + "=" + reset)
	buf.WriteString(quoteIfNeeded(a.Value))
}

func levelBadge(level slog.Level) (color, badge string) {
	switch {
	case level < slog.LevelInfo:
		return cyan, "DBG"
	case level < slog.LevelWarn:
		return green, "INF"
	case level < slog.LevelError:
		return yellow, "WRN"
	default:
		return red, "ERR"
	}
}

// quoteIfNeeded renders a value, quoting strings that would break the
// key=value reading.
func quoteIfNeeded(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && strings.ContainsAny(s, " \t\n\"\\") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
