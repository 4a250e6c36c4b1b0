package md2gdoc

import "runtime"

// Worker sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent compilations, each of which may hold
	// image fetches open against remote hosts.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for image fetches and uploads.
	cpuDivisor = 2
)

// ResolvePoolSize determines how many documents to compile concurrently.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
