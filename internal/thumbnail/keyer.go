package thumbnail

import (
	"crypto/sha1" //nolint:gosec // SHA-1 names cache files, not a security boundary
	"encoding/hex"
	"fmt"
	"path/filepath"

	"image-gallery/internal/mediatypes"
)

// CacheExt is the extension of every cache file.
const CacheExt = ".jpg"

// CacheDirFor returns the reserved thumbnail directory of a gallery directory.
func CacheDirFor(imageDir string) string {
	return filepath.Join(imageDir, mediatypes.ThumbnailDirName)
}

// KeyFor returns the cache file name for imagePath: the lowercase hex SHA-1
// of the absolute, symlink-free path followed by ".jpg". Images with the same
// base name in different directories get different keys.
func KeyFor(imagePath string) (string, error) {
	resolved, err := resolvePath(imagePath)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(resolved)) //nolint:gosec
	return hex.EncodeToString(sum[:]) + CacheExt, nil
}

// CachePath joins cacheDir with the key of imagePath.
func CachePath(imagePath, cacheDir string) (string, error) {
	key, err := KeyFor(imagePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, key), nil
}

// resolvePath makes p absolute and resolves symlinks. A path that does not
// exist yet is resolved through its nearest existing parent, so keys stay
// stable whether or not the file is present.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	dir, base := filepath.Split(abs)
	dir = filepath.Clean(dir)
	if dir == abs {
		return abs, nil
	}
	parent, err := resolvePath(dir)
	if err != nil {
		return abs, nil
	}
	return filepath.Join(parent, base), nil
}
