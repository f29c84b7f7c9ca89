package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "THUMBNAIL_WORKERS"

// Count returns the number of workers for a task with the given CPU
// multiplier (1.0 for CPU-bound rendering, 2.0 for I/O-bound work).
// It respects container CPU limits via GOMAXPROCS.
//
// The limit parameter caps the worker count. Use 0 for no limit.
// THUMBNAIL_WORKERS, when set to a positive integer, replaces the computed value.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return capAt(count, limit)
		}
	}

	// GOMAXPROCS is automatically set to container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)
	if workers < 1 {
		workers = 1
	}
	return capAt(workers, limit)
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// Resolve picks the worker count for a thumbnail warm-up. A positive
// configured value wins; otherwise the CPU-bound heuristic applies. The
// result never exceeds jobs, and is at least 1.
func Resolve(configured, jobs int) int {
	n := configured
	if n <= 0 {
		n = ForCPU(0)
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
