/*
Package filesystem provides filesystem operations with automatic retry logic
for NFS stale file handle errors.

Galleries frequently live on network shares. This package wraps os.Stat,
os.Open, os.ReadDir and os.Remove so that ESTALE (stale file handle) errors
are retried with exponential backoff instead of surfacing as a failed listing,
a thumbnail fallback or a failed deletion.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())

	err := filesystem.RemoveWithRetry(path, filesystem.DefaultRetryConfig())

# Retry Behavior

Defaults: 3 retries, 50ms initial backoff doubling up to 500ms. Only ESTALE
triggers a retry; every other error is returned immediately.

# Metrics

Operations report to the Observer installed with SetObserver. Paths inside a
.thumbnails directory are labelled "cache", everything else "source".
*/
package filesystem
