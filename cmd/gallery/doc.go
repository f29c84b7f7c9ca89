// Command gallery browses local image folders from the terminal.
//
// Each folder keeps its thumbnails in a hidden ".thumbnails" subdirectory.
// Thumbnails are square JPEGs (320x320 by default) named by a hash of the
// source's absolute path, and are refreshed whenever the source is modified.
//
// # Usage
//
//	gallery dirs [base]                  list folders under base
//	gallery list [dir] --sort newest     list images with mtime and MIME type
//	gallery thumbs [dir] --workers 4     build thumbnails, print original<TAB>display
//	gallery delete a.png b.png           delete after confirming on a terminal
//	gallery delete --yes a.png           delete without asking
//	gallery version
//
// Sort orders are name-asc (default), name-desc, newest and oldest. When an
// image cannot be thumbnailed its original path is printed as the display
// path.
//
// # Configuration
//
// Settings come from defaults, then the file named by --config, then
// environment variables (GALLERY_BASE_DIR, THUMBNAIL_SIZE, THUMBNAIL_QUALITY,
// THUMBNAIL_WORKERS, USE_VIPS, METRICS_FILE, LOG_LEVEL). With --metrics-file
// (or METRICS_FILE) the Prometheus registry is written to that file when a
// command finishes, for the node_exporter textfile collector.
package main
