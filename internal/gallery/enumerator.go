package gallery

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"image-gallery/internal/filesystem"
	"image-gallery/internal/logging"
	"image-gallery/internal/mediatypes"
	"image-gallery/internal/metrics"
)

// ImageEntry is a recognized image in a gallery directory.
type ImageEntry struct {
	Path    string
	ModTime time.Time
}

// Name returns the base name of the image.
func (e ImageEntry) Name() string {
	return filepath.Base(e.Path)
}

// Paths returns the paths of entries in order.
func Paths(entries []ImageEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// ListSubdirectories returns the absolute paths of the directories directly
// under base, sorted, without the thumbnail cache directory. Symlinks to
// directories are included. An unreadable base yields an empty result.
func ListSubdirectories(base string) []string {
	start := time.Now()
	var err error
	defer recordScan("list_subdirectories", start, &err)

	dirs, err := subdirectories(base)
	if err != nil {
		logging.Debug("Cannot list subdirectories of %s: %v", base, err)
		return []string{}
	}

	metrics.ScannerItemsReturned.WithLabelValues("list_subdirectories").Observe(float64(len(dirs)))
	return dirs
}

// CountSubdirectories returns how many entries ListSubdirectories would
// return, without recording a scan.
func CountSubdirectories(base string) int {
	dirs, err := subdirectories(base)
	if err != nil {
		return 0
	}
	return len(dirs)
}

func subdirectories(base string) ([]string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	entries, err := filesystem.ReadDirWithRetry(absBase, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == mediatypes.ThumbnailDirName {
			continue
		}
		full := filepath.Join(absBase, entry.Name())
		if !isDir(entry, full) {
			continue
		}
		dirs = append(dirs, full)
	}
	slices.Sort(dirs)
	return dirs, nil
}

// ListImages returns the recognized images directly inside dir, in
// directory order. Entries that vanish or cannot be stat'ed are skipped; an
// unreadable dir yields an empty result.
func ListImages(dir string) []ImageEntry {
	start := time.Now()
	var err error
	defer recordScan("list_images", start, &err)

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Debug("Cannot list images in %s: %v", dir, err)
		return []ImageEntry{}
	}

	images := make([]ImageEntry, 0, len(entries))
	for _, entry := range entries {
		if !mediatypes.IsImage(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		info, statErr := os.Stat(full)
		if statErr != nil {
			logging.Debug("Skipping %s: %v", full, statErr)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		images = append(images, ImageEntry{Path: full, ModTime: info.ModTime()})
	}

	metrics.ScannerItemsReturned.WithLabelValues("list_images").Observe(float64(len(images)))
	return images
}

// SortImages orders entries in place. Ties keep their existing order.
func SortImages(entries []ImageEntry, order mediatypes.SortOrder) {
	var less func(a, b ImageEntry) bool
	switch order {
	case mediatypes.SortNameDesc:
		less = func(a, b ImageEntry) bool { return foldedName(a) > foldedName(b) }
	case mediatypes.SortNewest:
		less = func(a, b ImageEntry) bool { return a.ModTime.After(b.ModTime) }
	case mediatypes.SortOldest:
		less = func(a, b ImageEntry) bool { return a.ModTime.Before(b.ModTime) }
	default:
		less = func(a, b ImageEntry) bool { return foldedName(a) < foldedName(b) }
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
}

func foldedName(e ImageEntry) string {
	return strings.ToLower(e.Name())
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(entry os.DirEntry, full string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func recordScan(op string, start time.Time, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	metrics.ScannerOperationsTotal.WithLabelValues(op, status).Inc()
	metrics.ScannerOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
