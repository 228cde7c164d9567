package profile

// Tag is the build tag that enables profiling. It is also used as the name
// of the default output subdirectory.
const Tag = "pprof"

// Stopper ends a profiling session started with [Profiler.Start].
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported mode disables profiling.
	Mode string
	// Path is the output directory. Empty uses the working directory.
	Path string
	// Quiet suppresses the messages written by the profiler on start and stop.
	Quiet bool
}

// Enabled reports whether p would start a real profiler.
func (p Profiler) Enabled() bool {
	return p.Mode != "" && supported(p.Mode)
}

// Start begins profiling and returns a [Stopper] that flushes the profile.
// Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
