// Package profile starts and stops runtime profiling of the treewalk
// command.
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]):
//
//	go build -tags pprof .
//	treewalk --pprof-mode cpu run -f scene.tw
//	go tool pprof -http=: ~/.cache/treewalk/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a stopper
// that does nothing. Built with the tag, the package also registers the
// net/http/pprof handlers on [net/http.DefaultServeMux].
package profile
