//go:build !pprof

package profile

import "testing"

func TestProfiler_DisabledBuild(t *testing.T) {
	if got := Modes(); len(got) != 0 {
		t.Errorf("Modes() = %v, want empty", got)
	}

	p := Profiler{Mode: "cpu", Path: t.TempDir(), Quiet: true}

	if p.Enabled() {
		t.Error("Enabled() = true without pprof build tag")
	}

	// Must not panic.
	p.Start().Stop()
}

func TestProfiler_EmptyMode(t *testing.T) {
	var p Profiler

	if p.Enabled() {
		t.Error("Enabled() = true for empty mode")
	}

	p.Start().Stop()
}
