package host

import (
	"maps"
	"os"
	"slices"

	"github.com/ardnew/mung"
)

// Env is a copy-on-write view of the process environment. Scripts read
// variables through it and stage changes in an overlay; the process
// environment itself is never modified.
type Env struct {
	lookup  func(string) (string, bool)
	overlay map[string]string
}

// NewEnv returns an environment view backed by lookup, or by
// [os.LookupEnv] if lookup is nil.
func NewEnv(lookup func(string) (string, bool)) *Env {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return &Env{lookup: lookup, overlay: make(map[string]string)}
}

// Get returns the value of the variable name, or "" if unset.
func (e *Env) Get(name string) string {
	if v, ok := e.overlay[name]; ok {
		return v
	}

	v, _ := e.lookup(name)

	return v
}

// Has reports whether the variable name is set.
func (e *Env) Has(name string) bool {
	if _, ok := e.overlay[name]; ok {
		return true
	}

	_, ok := e.lookup(name)

	return ok
}

// Set stages value for the variable name.
func (e *Env) Set(name, value string) { e.overlay[name] = value }

// Prepend stages the path list in name with dir moved or added to the front
// and returns the new list. Empty list items are dropped.
func (e *Env) Prepend(name, dir string) string {
	v := pathList(e.Get(name), dir, func(string) bool { return true })
	e.overlay[name] = v

	return v
}

// PrependDir is like [Env.Prepend] but also drops list items that are not
// existing directories, including dir itself.
func (e *Env) PrependDir(name, dir string) string {
	v := pathList(e.Get(name), dir, isDir)
	e.overlay[name] = v

	return v
}

// Changes returns the staged variables as sorted "NAME=VALUE" strings.
func (e *Env) Changes() []string {
	out := make([]string, 0, len(e.overlay))
	for _, k := range slices.Sorted(maps.Keys(e.overlay)) {
		out = append(out, k+"="+e.overlay[k])
	}

	return out
}

func pathList(subject, dir string, keep func(string) bool) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dir),
		mung.WithFilter(func(s string) bool { return s != "" && keep(s) }),
	).String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
