package deletion

import (
	"image-gallery/internal/filesystem"
	"image-gallery/internal/logging"
	"image-gallery/internal/metrics"
)

// MaxBatch is the most paths a front end should offer for one confirmation.
const MaxBatch = 200

// Failure records a path that could not be removed.
type Failure struct {
	Path string
	Err  string
}

// Result is the outcome of a batch. Every input path appears in exactly one
// of Successes or Failures, in input order.
type Result struct {
	Successes []string
	Failures  []Failure
}

// OK reports whether every path was removed.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// DeleteAll removes each path independently. A failure on one path never
// stops the rest, and nothing is rolled back. Cached thumbnails of removed
// images are left in place.
func DeleteAll(paths []string) Result {
	res := Result{
		Successes: make([]string, 0, len(paths)),
	}
	if len(paths) == 0 {
		return res
	}

	metrics.DeletionBatchSize.Observe(float64(len(paths)))
	cfg := filesystem.DefaultRetryConfig()

	for _, p := range paths {
		if err := filesystem.RemoveWithRetry(p, cfg); err != nil {
			logging.Warn("Failed to delete %s: %v", p, err)
			metrics.DeletionsTotal.WithLabelValues("error").Inc()
			res.Failures = append(res.Failures, Failure{Path: p, Err: err.Error()})
			continue
		}
		logging.Debug("Deleted %s", p)
		metrics.DeletionsTotal.WithLabelValues("success").Inc()
		res.Successes = append(res.Successes, p)
	}

	logging.Info("Deleted %d of %d files (%d failed)", len(res.Successes), len(paths), len(res.Failures))
	return res
}

// Truncate returns at most MaxBatch paths and whether any were dropped.
func Truncate(paths []string) ([]string, bool) {
	if len(paths) <= MaxBatch {
		return paths, false
	}
	return paths[:MaxBatch], true
}
