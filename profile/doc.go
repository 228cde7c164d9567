// Package profile provides optional runtime profiling of the jamal
// interpreter.
//
// Profiling is backed by [github.com/pkg/profile] and must be enabled at
// build time using the "pprof" build tag:
//
//	go build -tags pprof .
//	jamal --pprof-mode cpu script.jml
//
// When built without the tag, [Modes] is empty and [Profiler.Start] returns
// a no-op, so callers never need to guard their use of the package.
//
// Profile files are written to [Profiler.Path] with names matching the mode
// (e.g., cpu.pprof) and are analyzed with "go tool pprof".
package profile
