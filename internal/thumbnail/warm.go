package thumbnail

import (
	"context"
	"time"

	"image-gallery/internal/logging"
	"image-gallery/internal/metrics"
	"image-gallery/internal/workers"

	"golang.org/x/sync/errgroup"
)

// DisplayResult pairs a source image with the path to show for it.
type DisplayResult struct {
	Original string
	Display  string
	// Thumbnail is false when Display fell back to Original.
	Thumbnail bool
}

// Throttle holds back renders, for example under memory pressure.
type Throttle interface {
	Wait(ctx context.Context) error
}

// SetThrottle makes each Warm worker wait on t before resolving an image.
func (c *Cache) SetThrottle(t Throttle) {
	c.throttle = t
}

// Warm resolves display paths for every image, rendering missing or stale
// thumbnails on a bounded worker pool. Results keep the order of paths.
// Images not reached before ctx is cancelled fall back to their originals.
func (c *Cache) Warm(ctx context.Context, paths []string, cacheDir string, workerCount int) []DisplayResult {
	results := make([]DisplayResult, len(paths))
	for i, p := range paths {
		results[i] = DisplayResult{Original: p, Display: p}
	}
	if len(paths) == 0 {
		return results
	}

	n := workers.Resolve(workerCount, len(paths))
	metrics.ThumbnailWarmWorkers.Set(float64(n))
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n)

	for i, p := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if c.throttle != nil {
				if err := c.throttle.Wait(ctx); err != nil {
					return nil
				}
			}
			display := c.GetDisplayPath(p, cacheDir)
			results[i] = DisplayResult{Original: p, Display: display, Thumbnail: display != p}
			return nil
		})
	}
	_ = g.Wait()

	logging.Debug("Thumbnail warm-up of %d images with %d workers took %v", len(paths), n, time.Since(start))
	return results
}
