/*
Package workers sizes the thumbnail warm-up pool.

Go 1.19+ sets GOMAXPROCS from the container CPU limit, while runtime.NumCPU
still reports the host's CPUs. Counts here are derived from GOMAXPROCS so a
gallery on a 2-core container does not spawn 64 decoders:

	// Wrong: Returns 64 (host CPUs), ignores container limit
	n := runtime.NumCPU()

	// Correct: Returns 2 (respects container limit)
	n := workers.ForCPU(0)

Thumbnail rendering is CPU-bound (decode, Lanczos resize, JPEG encode), so
the warm-up uses ForCPU via Resolve, capped at the number of images. Setting
THUMBNAIL_WORKERS pins the count.
*/
package workers
