// Package vips wraps libvips as a fallback decoder for sources the Go image
// decoders reject (truncated JPEGs, exotic TIFF compressions, CMYK WebP).
package vips

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"image-gallery/internal/logging"

	govips "github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

// ErrUnavailable is returned by Decode before Init or after Shutdown.
var ErrUnavailable = errors.New("libvips not available")

var (
	mu          sync.Mutex
	initialized bool
	available   bool
)

// Init starts libvips once. It is safe to call repeatedly.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}

	// Configure vips logging BEFORE Startup() so LOG_LEVEL is respected
	govips.LoggingSettings(logHandler(logging.GetLevel()))

	govips.Startup(&govips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	initialized = true
	available = true
	logging.Debug("libvips initialized (version: %s)", govips.Version)
	return nil
}

// logHandler maps the application log level onto libvips' log level and
// returns a handler forwarding vips messages to the logging package.
func logHandler(level logging.LogLevel) (func(string, govips.LogLevel, string), govips.LogLevel) {
	forward := func(domain string, l govips.LogLevel, msg string) {
		switch {
		case l <= govips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case l == govips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch level {
	case logging.LevelDebug:
		return forward, govips.LogLevelInfo
	case logging.LevelInfo:
		return forward, govips.LogLevelWarning
	case logging.LevelWarn:
		return forward, govips.LogLevelError
	default:
		return forward, govips.LogLevelCritical
	}
}

// Shutdown releases libvips. govips cannot be restarted afterwards.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	if initialized && available {
		govips.Shutdown()
		available = false
		logging.Debug("libvips shutdown complete")
	}
}

// Available reports whether Decode can be used.
func Available() bool {
	mu.Lock()
	defer mu.Unlock()
	return available
}

// Decode loads path with libvips and returns it as an image.Image. Sources
// larger than maxDimension on either side are shrunk during load; pass 0 to
// keep the original size. Alpha is preserved by round-tripping through PNG.
func Decode(path string, maxDimension int) (image.Image, error) {
	if !Available() {
		return nil, ErrUnavailable
	}

	ref, err := govips.LoadImageFromFile(path, importParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	w, h := ref.Width(), ref.Height()
	if maxDimension > 0 && (w > maxDimension || h > maxDimension) {
		logging.Debug("vips shrinking %s from %dx%d to fit %d", filepath.Base(path), w, h, maxDimension)
		if err := ref.Thumbnail(maxDimension, maxDimension, govips.InterestingNone); err != nil {
			return nil, fmt.Errorf("vips resize failed: %w", err)
		}
	}

	buf, _, err := ref.ExportPng(govips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}

// importParams applies EXIF orientation on load so libvips output matches
// the Go decode path.
func importParams() *govips.ImportParams {
	params := govips.NewImportParams()
	params.AutoRotate.Set(true)
	return params
}
