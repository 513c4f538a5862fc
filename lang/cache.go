package lang

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores parse results keyed by a hash of the source text and
// the options that affect parsing.
var programCache sync.Map

// entry holds the result of parsing one source exactly once. The source
// and depth it was created for are kept so that a hash collision is
// detected instead of returning another source's program.
type entry struct {
	prog   *Program
	err    error
	source string
	depth  int
	once   sync.Once
}

func (e *entry) matches(source string, o options) bool {
	return e.source == source && e.depth == o.maxDepth
}

// cacheKey hashes the source together with the parse options.
func cacheKey(source string, o options) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(source)
	_, _ = h.Write(binary.AppendVarint(nil, int64(o.maxDepth)))

	return h.Sum64()
}

// ParseString parses a program from source text.
//
// Results are cached by content: parsing the same text with the same options
// again returns the same immutable [*Program] (or the same error) without
// re-parsing. A different source whose key collides with a cached one is
// parsed without caching. Programs are never modified after parsing, so sharing them
// between interpreters and goroutines is safe.
func ParseString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)
	key := cacheKey(source, o)

	value, hit := programCache.LoadOrStore(key,
		&entry{source: source, depth: o.maxDepth})

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrInternal.With(
			slog.String("reason", "invalid cache entry type"))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit))

	if !e.matches(source, o) {
		o.logger.DebugContext(ctx, "cache collision",
			slog.String("key", strconv.FormatUint(key, 16)))

		return Parse(ctx, source, opts...)
	}

	e.once.Do(func() {
		e.prog, e.err = Parse(ctx, source, opts...)
	})

	if errors.Is(e.err, ErrCanceled) {
		programCache.CompareAndDelete(key, e)
	}

	return e.prog, e.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Read ahead asynchronously so that slow sources (pipes, network
	// bodies) are drained while earlier chunks are being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes all cached parse results.
func ClearCache() {
	programCache.Clear()
}
