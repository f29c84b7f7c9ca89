// Package startup loads configuration and exposes build information.
//
// # Configuration
//
// [LoadConfig] starts from [DefaultConfig], overlays an optional TOML file,
// then environment variables:
//
//   - GALLERY_BASE_DIR / base_dir: gallery root (default: current directory)
//   - THUMBNAIL_SIZE / thumbnail_size: thumbnail edge in pixels (default: 320)
//   - THUMBNAIL_QUALITY / thumbnail_quality: JPEG quality 1-100 (default: 85)
//   - THUMBNAIL_WORKERS / workers: warm-up pool size, 0 for automatic
//   - USE_VIPS / use_vips: enable the libvips fallback decoder (default: true)
//   - METRICS_FILE / metrics_file: Prometheus textfile to write on exit
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// A value that does not parse or is out of range is logged and replaced by
// the default. An example file:
//
//	base_dir = "/srv/photos"
//	thumbnail_size = 256
//	use_vips = false
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X image-gallery/internal/startup.Version=1.2.0"
package startup
