package profile

import (
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	CPUProfile    string
	HeapProfile   string
	AllocsProfile string
	BlockProfile  string
	MutexProfile  string

	MemProfileRate       string
	BlockProfileRate     string
	MutexProfileFraction string
}

// Config holds profiling configuration: output paths (empty = disabled)
// and sampling rates.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags Flags

	CPUProfile    string
	HeapProfile   string
	AllocsProfile string
	BlockProfile  string
	MutexProfile  string

	MemProfileRate       int
	BlockProfileRate     int
	MutexProfileFraction int
}

// NewConfig returns a new [Config] with default flag names and the runtime
// default memory sampling rate.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			CPUProfile:           "cpu-profile",
			HeapProfile:          "heap-profile",
			AllocsProfile:        "allocs-profile",
			BlockProfile:         "block-profile",
			MutexProfile:         "mutex-profile",
			MemProfileRate:       "mem-profile-rate",
			BlockProfileRate:     "block-profile-rate",
			MutexProfileFraction: "mutex-profile-fraction",
		},
		MemProfileRate: 512 * 1024,
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.StringVar(&c.AllocsProfile, c.Flags.AllocsProfile, "", "write allocs profile to file")
	flags.StringVar(&c.BlockProfile, c.Flags.BlockProfile, "", "write block profile to file")
	flags.StringVar(&c.MutexProfile, c.Flags.MutexProfile, "", "write mutex profile to file")

	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, c.MemProfileRate,
		"memory profiling sample rate in bytes")
	flags.IntVar(&c.BlockProfileRate, c.Flags.BlockProfileRate, 0,
		"block profiling sample rate in nanoseconds")
	flags.IntVar(&c.MutexProfileFraction, c.Flags.MutexProfileFraction, 0,
		"fraction of mutex contention events profiled")
}

// NewProfiler creates a [Profiler] executing this configuration.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{Config: *c}
}
