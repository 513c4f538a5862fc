package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/treewalk/lang"
	"github.com/ardnew/treewalk/log"
)

// DefaultTimeout bounds fetching a URL source.
const DefaultTimeout = 10 * time.Second

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

type (
	contextKey struct{}
	streamsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context carrying s. Nil fields fall back
// to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// Input selects the script a command reads.
type Input struct {
	Source  string        `default:"-"   help:"Script file, http(s) URL, or '-' for stdin." short:"f"`
	Timeout time.Duration `default:"10s" help:"Timeout for fetching a URL source."`
}

func (in Input) load(ctx context.Context) (*lang.Program, error) {
	return load(ctx, in.Source, in.Timeout)
}

// load parses the script named by src.
func load(ctx context.Context, src string, timeout time.Duration) (*lang.Program, error) {
	r, err := open(ctx, src, timeout)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	prog, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("source", src))
	}

	log.DebugContext(ctx, "loaded program",
		slog.String("source", src),
		slog.Int("functions", len(prog.Names())))

	return prog, nil
}

// open returns a reader over the source named by src: standard input for
// "-" or "", an HTTP response body for an http(s) URL, or a local file.
func open(ctx context.Context, src string, timeout time.Duration) (io.ReadCloser, error) {
	switch {
	case src == "" || src == stdinSource:
		return io.NopCloser(streamsFrom(ctx).In), nil

	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return fetch(ctx, src, timeout)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err).With(slog.String("source", src))
	}

	return f, nil
}

func fetch(ctx context.Context, url string, timeout time.Duration) (io.ReadCloser, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrFetch.Wrap(err).With(slog.String("url", url))
	}

	client := http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrFetch.Wrap(err).With(slog.String("url", url))
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, ErrFetch.With(
			slog.String("url", url),
			slog.String("status", resp.Status))
	}

	log.TraceContext(ctx, "fetched source",
		slog.String("url", url),
		slog.Int64("length", resp.ContentLength))

	return resp.Body, nil
}
