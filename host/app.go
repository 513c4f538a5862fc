package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/treewalk/lang"
	"github.com/ardnew/treewalk/log"
)

// App is the host object bound to the script global "host". It gives
// scripts an output stream, a scene to populate, and the process
// environment.
type App struct {
	Scene  *Recorder
	Env    *Env
	out    io.Writer
	logger log.Logger
	Name   string
}

// Option configures an [App].
type Option func(*App)

// WithOutput directs [App.Print] output to w.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithLogger sets the logger used by [App.Log].
func WithLogger(l log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithEnv replaces the environment view.
func WithEnv(e *Env) Option {
	return func(a *App) { a.Env = e }
}

// NewApp returns an application named name with an empty scene. Output is
// discarded unless [WithOutput] is given.
func NewApp(name string, opts ...Option) *App {
	a := &App{
		Name:  name,
		Scene: NewRecorder(),
		out:   io.Discard,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Env == nil {
		a.Env = NewEnv(nil)
	}

	return a
}

// Print writes the string form of v and a newline.
func (a *App) Print(v lang.Value) error {
	_, err := fmt.Fprintln(a.out, v.String())

	return err
}

// Log writes msg to the application log at info level.
func (a *App) Log(ctx context.Context, msg string) {
	a.logger.InfoContext(ctx, msg, slog.String("app", a.Name))
}

// String returns the application name.
func (a *App) String() string { return a.Name }

// AddBox adds a unit box at (x, y, z) to the scene.
func (a *App) AddBox(x, y, z float32) {
	a.Scene.AddBox(NewVector(x, y, z), 1)
}

// AddCamera adds a camera at (x, y, z) looking at (lx, ly, lz) to the scene.
func (a *App) AddCamera(x, y, z, lx, ly, lz float32) {
	a.Scene.AddCamera(NewVector(x, y, z), NewVector(lx, ly, lz))
}
