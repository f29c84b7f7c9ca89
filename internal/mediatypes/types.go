package mediatypes

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ThumbnailDirName is the reserved per-directory cache subdirectory. It is
// never listed as a gallery subdirectory.
const ThumbnailDirName = ".thumbnails"

// ImageExtensions maps lowercase file extensions to whether they are
// recognized gallery images.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
}

// MimeTypes maps recognized image extensions to their MIME types.
var MimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
}

// IsImage reports whether name has a recognized image extension.
// The comparison is case-insensitive.
func IsImage(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}

// GetMimeType returns the MIME type for a given file name.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(name string) string {
	if mime, ok := MimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// SortOrder specifies how an image listing is ordered.
type SortOrder string

const (
	// SortNameAsc sorts by basename, case-insensitive, A to Z.
	SortNameAsc SortOrder = "name-asc"
	// SortNameDesc sorts by basename, case-insensitive, Z to A.
	SortNameDesc SortOrder = "name-desc"
	// SortNewest sorts by modification time, newest first.
	SortNewest SortOrder = "newest"
	// SortOldest sorts by modification time, oldest first.
	SortOldest SortOrder = "oldest"
)

// SortOrders lists every supported order in display order.
var SortOrders = []SortOrder{SortNameAsc, SortNameDesc, SortNewest, SortOldest}

// ParseSortOrder converts a user supplied name into a SortOrder.
// An empty string selects SortNameAsc.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNameAsc, nil
	}
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q (want one of %s)", s, strings.Join(sortOrderNames(), ", "))
}

func sortOrderNames() []string {
	names := make([]string, len(SortOrders))
	for i, o := range SortOrders {
		names[i] = string(o)
	}
	return names
}
