package thumbnail

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"image-gallery/internal/filesystem"
	"image-gallery/internal/logging"
	"image-gallery/internal/metrics"
)

// Fallback stages that are not render stages.
const (
	StageKey   = "key"
	StageStat  = "stat"
	StageMkdir = "mkdir"
	StageWrite = "write"
)

// CacheError reports why a display path could not be produced.
type CacheError struct {
	Path  string
	Stage string
	Err   error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("thumbnail cache %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Cache maps source images to thumbnails in a cache directory, regenerating
// them when the source is newer than the cached copy.
type Cache struct {
	renderer FileRenderer
	throttle Throttle
	retry    filesystem.RetryConfig
	now      func() time.Time
}

// NewCache returns a Cache rendering misses with r.
func NewCache(r FileRenderer) *Cache {
	return &Cache{
		renderer: r,
		retry:    filesystem.DefaultRetryConfig(),
		now:      time.Now,
	}
}

// GetDisplayPath returns the thumbnail path for imagePath, creating or
// refreshing the thumbnail as needed. On any failure it logs a warning and
// returns imagePath unchanged, so a caller always has something to show.
func (c *Cache) GetDisplayPath(imagePath, cacheDir string) string {
	p, err := c.Ensure(imagePath, cacheDir)
	if err != nil {
		metrics.ThumbnailFallbacks.WithLabelValues(stageOf(err)).Inc()
		logging.Warn("Thumbnail unavailable for %s, using original: %v", imagePath, err)
		return imagePath
	}
	return p
}

// Ensure returns the path of a fresh thumbnail for imagePath. A cached file
// is fresh when its mtime is not older than the source's. New thumbnails are
// written atomically and stamped with the source's mtime.
func (c *Cache) Ensure(imagePath, cacheDir string) (string, error) {
	thumbPath, err := CachePath(imagePath, cacheDir)
	if err != nil {
		return "", &CacheError{Path: imagePath, Stage: StageKey, Err: err}
	}

	src, err := filesystem.StatWithRetry(imagePath, c.retry)
	if err != nil {
		return "", &CacheError{Path: imagePath, Stage: StageStat, Err: err}
	}
	if src.IsDir() {
		return "", &CacheError{Path: imagePath, Stage: StageStat, Err: errors.New("is a directory")}
	}

	thumb, err := filesystem.StatWithRetry(thumbPath, c.retry)
	switch {
	case err == nil && !thumb.ModTime().Before(src.ModTime()):
		metrics.ThumbnailCacheHits.Inc()
		logging.Debug("Thumbnail cache hit: %s", imagePath)
		return thumbPath, nil
	case err == nil:
		metrics.ThumbnailCacheMisses.WithLabelValues("stale").Inc()
		logging.Debug("Thumbnail stale for %s (thumb %v < source %v)", imagePath, thumb.ModTime(), src.ModTime())
	default:
		metrics.ThumbnailCacheMisses.WithLabelValues("missing").Inc()
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", &CacheError{Path: imagePath, Stage: StageMkdir, Err: err}
	}

	data, err := c.renderer.RenderFile(imagePath)
	if err != nil {
		return "", err
	}

	if err := c.write(thumbPath, data, src.ModTime()); err != nil {
		return "", &CacheError{Path: imagePath, Stage: StageWrite, Err: err}
	}

	logging.Debug("Thumbnail cached: %s", thumbPath)
	return thumbPath, nil
}

// write stores data at path via a temp file in the same directory so readers
// never see a partial thumbnail.
func (c *Cache) write(path string, data []byte, modTime time.Time) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Debug("Failed to remove temp file %s: %v", tmpName, rmErr)
		}
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Chtimes(tmpName, c.now(), modTime); err != nil {
		cleanup()
		return fmt.Errorf("failed to set thumbnail mtime: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// stageOf extracts the failing stage from a Cache or Render error.
func stageOf(err error) string {
	var ce *CacheError
	if errors.As(err, &ce) {
		return ce.Stage
	}
	var re *RenderError
	if errors.As(err, &re) {
		return re.Stage
	}
	return StageDecode
}
