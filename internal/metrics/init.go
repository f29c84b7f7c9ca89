package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every series appears in the first export.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Filesystem operation metrics (per volume × operation) ---
	volumes := []string{"source", "cache"}
	fsOps := []string{"stat", "open", "readdir", "remove"}

	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}

	// --- Thumbnail cache ---
	for _, reason := range []string{"missing", "stale"} {
		ThumbnailCacheMisses.WithLabelValues(reason)
	}
	for _, stage := range []string{"key", "stat", "mkdir", "decode", "resize", "encode", "write"} {
		ThumbnailFallbacks.WithLabelValues(stage)
	}
	for _, status := range []string{"success", "error"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}
	for _, phase := range []string{"decode", "resize", "compose", "encode", "total"} {
		ThumbnailGenerationDuration.WithLabelValues(phase)
	}
	for _, format := range []string{"jpeg", "png", "gif", "webp", "bmp", "tiff", "vips", "unknown"} {
		ThumbnailImageDecodeByFormat.WithLabelValues(format)
	}

	// --- Enumeration ---
	for _, op := range []string{"list_subdirectories", "list_images"} {
		ScannerOperationsTotal.WithLabelValues(op, "success")
		ScannerOperationsTotal.WithLabelValues(op, "error")
		ScannerOperationDuration.WithLabelValues(op)
		ScannerItemsReturned.WithLabelValues(op)
	}

	// --- Deletion ---
	for _, status := range []string{"success", "error"} {
		DeletionsTotal.WithLabelValues(status)
	}
}
