// Package deletion removes user-selected images in best-effort batches and
// reports per-file outcomes.
package deletion
