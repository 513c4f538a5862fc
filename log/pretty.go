package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles are bound to a
// renderer for the handler's writer, so output to a file or buffer that is
// not a color terminal is unstyled.
type palette struct {
	key, str, num, tru, fls, dur, tim, null lipgloss.Style
	levels                                  [4]lipgloss.Style // trace/debug, info, warn, error
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		tru:  fg("2"),
		fls:  fg("1"),
		dur:  fg("5"),
		tim:  fg("4"),
		null: fg("8"),
		levels: [4]lipgloss.Style{
			fg("4"),
			fg("2"),
			fg("3").Bold(true),
			fg("1").Bold(true),
		},
	}
}

func (p *palette) level(l slog.Level) string {
	i := 0

	switch {
	case l >= slog.LevelError:
		i = 3
	case l >= slog.LevelWarn:
		i = 2
	case l >= slog.LevelInfo:
		i = 1
	}

	return p.levels[i].Render(strings.ToUpper(Level(l).String()))
}

// value renders v by kind.
func (p *palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.tru.Render("true")
		}

		return p.fls.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.tim.Render(v.Time().String())
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if l, ok := v.Any().(slog.Level); ok {
			return p.level(l)
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	default:
		return p.str.Render(v.String())
	}
}

// prettyBase is the state shared by both pretty handlers: the destination,
// the preformatted attributes of [slog.Handler.WithAttrs], and the open group
// prefix of [slog.Handler.WithGroup].
type prettyBase struct {
	opts       slog.HandlerOptions
	mu         *sync.Mutex
	w          io.Writer
	pal        *palette
	formatTime FormatTime
	prefix     string
	attrs      []slog.Attr
}

func newPrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	return prettyBase{
		opts:       *opts,
		mu:         &sync.Mutex{},
		w:          w,
		pal:        newPalette(w),
		formatTime: formatTime,
	}
}

func (b *prettyBase) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if b.opts.Level != nil {
		floor = b.opts.Level.Level()
	}

	return level >= floor
}

// withAttrs returns a copy of b carrying attrs qualified by the open groups.
func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	next := make([]slog.Attr, len(b.attrs), len(b.attrs)+len(attrs))
	copy(next, b.attrs)

	for _, a := range attrs {
		next = append(next, slog.Attr{Key: b.prefix + a.Key, Value: a.Value})
	}

	b.attrs = next

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	b.prefix += name + "."

	return b
}

// fields returns the record's fields in output order: time, level, source,
// message, handler attributes, record attributes. Group attributes are
// flattened to dotted keys.
func (b *prettyBase) fields(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4+len(b.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := b.formatTime(r.Time); s != "" {
			fields = append(fields, slog.String(slog.TimeKey, s))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, b.prefix, a)

		return true
	})

	return fields
}

func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() != slog.KindGroup {
		if a.Key == "" {
			return dst
		}

		return append(dst, slog.Attr{Key: prefix + a.Key, Value: v})
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range v.Group() {
		dst = flatten(dst, prefix, g)
	}

	return dst
}

func (b *prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one line per record of unquoted key=value pairs.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.pal.value(a.Value))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented object, one field per
// line, with unquoted string values.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.pal.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.pal.value(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
