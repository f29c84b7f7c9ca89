// Package mediatypes provides shared type definitions for the gallery.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains the recognized
// image extensions, the reserved thumbnail cache directory name and the
// listing sort orders.
//
// # Extension Detection
//
//	if mediatypes.IsImage(entry.Name()) {
//	    // recognized gallery image
//	}
//
// Only png, jpg, jpeg, gif, bmp, webp and tiff are recognized. Matching is
// case-insensitive on the extension.
//
// # Reserved Directory
//
// ThumbnailDirName (".thumbnails") holds generated thumbnails inside each
// gallery directory and is never treated as a gallery subdirectory.
//
// # Sorting
//
//	order, err := mediatypes.ParseSortOrder("newest")
//
// Supported orders are name-asc, name-desc, newest and oldest.
package mediatypes
