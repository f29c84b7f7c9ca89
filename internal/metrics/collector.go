package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"image-gallery/internal/logging"
)

// GalleryStats is a point-in-time view of one image folder and its cache.
type GalleryStats struct {
	Images         int
	Subdirectories int
	Thumbnails     int
	ThumbnailBytes int64
}

// Gallery metrics
var (
	GalleryImages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_images",
			Help: "Number of images in the last processed folder",
		},
	)

	GallerySubdirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_subdirectories",
			Help: "Number of subfolders in the last processed folder",
		},
	)

	GalleryThumbnails = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_thumbnail_cache_files",
			Help: "Number of thumbnail files in the last processed cache directory",
		},
	)

	GalleryThumbnailBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_thumbnail_cache_bytes",
			Help: "Total size of thumbnail files in the last processed cache directory",
		},
	)
)

// RecordGalleryStats publishes s to the gallery gauges.
func RecordGalleryStats(s GalleryStats) {
	GalleryImages.Set(float64(s.Images))
	GallerySubdirectories.Set(float64(s.Subdirectories))
	GalleryThumbnails.Set(float64(s.Thumbnails))
	GalleryThumbnailBytes.Set(float64(s.ThumbnailBytes))

	logging.Debug("Gallery stats: images=%d, subdirectories=%d, thumbnails=%d (%d bytes)",
		s.Images, s.Subdirectories, s.Thumbnails, s.ThumbnailBytes)
}
