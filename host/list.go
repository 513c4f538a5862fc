package host

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/treewalk/lang"
)

// List is a growable sequence of script values. Scripts index it with
// "list[i]".
type List struct {
	items []lang.Value
}

// NewList returns an empty list.
func NewList() *List { return &List{} }

// Add appends v.
func (l *List) Add(v lang.Value) { l.items = append(l.items, v) }

// Count returns the number of items.
func (l *List) Count() int { return len(l.items) }

// Set replaces the item at index i.
func (l *List) Set(i int, v lang.Value) error {
	if i < 0 || i >= len(l.items) {
		return lang.ErrIndex.With(slog.Int("index", i), slog.Int("count", len(l.items)))
	}

	l.items[i] = v

	return nil
}

// Join returns the string forms of the items separated by sep.
func (l *List) Join(sep string) string {
	parts := make([]string, len(l.items))
	for i, v := range l.items {
		parts[i] = v.String()
	}

	return strings.Join(parts, sep)
}

// Index implements [lang.Indexer].
func (l *List) Index(_ context.Context, key lang.Value) (lang.Value, error) {
	if key.Kind() != lang.KindInt && key.Kind() != lang.KindChar {
		return lang.Value{}, lang.ErrType.With(slog.String("index", key.Kind().String()))
	}

	i, _ := key.Any().(int32)

	if i < 0 || int(i) >= len(l.items) {
		return lang.Value{}, lang.ErrIndex.With(slog.Int("index", int(i)), slog.Int("count", len(l.items)))
	}

	return l.items[i], nil
}
