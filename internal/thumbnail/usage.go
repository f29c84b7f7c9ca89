package thumbnail

import (
	"errors"
	"io/fs"
	"strings"

	"image-gallery/internal/filesystem"
)

// Usage counts the cache files in cacheDir and their total size. A missing
// directory is an empty cache. Temp files from interrupted writes are not
// counted.
func Usage(cacheDir string) (files int, bytes int64, err error) {
	entries, err := filesystem.ReadDirWithRetry(cacheDir, filesystem.DefaultRetryConfig())
	if errors.Is(err, fs.ErrNotExist) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), CacheExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files++
		bytes += info.Size()
	}
	return files, bytes, nil
}
