// Package profile wires runtime/pprof profiling behind CLI flags.
//
// A zero-value [Config] has every profile disabled. Register flags on a
// command, build a [Profiler], call [Profiler.Start] before the workload
// and [Profiler.Stop] after it to write the enabled profiles.
package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls the lifecycle of one profiling session.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	Config
}

// Start configures sampling rates and begins CPU profiling if enabled.
func (p *Profiler) Start() error {
	runtime.MemProfileRate = p.MemProfileRate
	runtime.SetBlockProfileRate(p.BlockProfileRate)
	runtime.SetMutexProfileFraction(p.MutexProfileFraction)

	if p.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.CPUProfile)
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f

	return nil
}

// Stop ends CPU profiling and writes the enabled snapshot profiles.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}

		p.cpuFile = nil
	}

	return p.writeSnapshots()
}

func (p *Profiler) writeSnapshots() error {
	snapshots := []struct {
		name string
		path string
	}{
		{name: "heap", path: p.HeapProfile},
		{name: "allocs", path: p.AllocsProfile},
		{name: "block", path: p.BlockProfile},
		{name: "mutex", path: p.MutexProfile},
	}

	for _, s := range snapshots {
		if s.path == "" {
			continue
		}

		if err := writeProfile(s.name, s.path); err != nil {
			return err
		}
	}

	return nil
}

func writeProfile(name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s profile: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
		return fmt.Errorf("writing %s profile: %w", name, err)
	}

	return nil
}
