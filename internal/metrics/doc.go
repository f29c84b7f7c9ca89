// Package metrics provides Prometheus instrumentation for the gallery tools.
//
// All metrics are registered on the default registry through promauto and are
// prefixed with "gallery_". There is no HTTP listener: WriteTextfile dumps
// the registry in the text exposition format so the node_exporter textfile
// collector (or a human) can pick it up after a run.
//
// # Thumbnail Metrics
//
//   - ThumbnailCacheHits: fresh cache files reused
//   - ThumbnailCacheMisses: renders triggered, by reason (missing/stale)
//   - ThumbnailFallbacks: original path returned instead, by failing stage
//   - ThumbnailGenerationsTotal: renders by status
//   - ThumbnailGenerationDuration: render phases (decode/resize/compose/encode/total)
//   - ThumbnailImageDecodeByFormat: decoded sources by format
//   - ThumbnailWarmWorkers: worker count of the last warm-up
//
// # Enumeration Metrics
//
//   - ScannerOperationsTotal, ScannerOperationDuration, ScannerItemsReturned
//
// # Deletion Metrics
//
//   - DeletionsTotal: per-file outcomes by status
//   - DeletionBatchSize: paths per batch
//
// # Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver:
// operation durations and errors by volume (source/cache), plus ESTALE retry
// counters.
package metrics
