// Package thumbnail renders fixed-size JPEG thumbnails and keeps them in a
// per-directory ".thumbnails" cache.
//
// Cache files are named by the SHA-1 of the source's absolute path, so two
// files called "a.png" in different folders never collide. A thumbnail is
// reused while its mtime is not older than the source's; after rendering, its
// mtime is set to the source's so the comparison stays exact.
//
// Any failure on the way to a thumbnail (unreadable source, undecodable data,
// a read-only cache directory) degrades to the original path rather than an
// error:
//
//	cache := thumbnail.NewCache(thumbnail.NewRenderer(320, 85))
//	display := cache.GetDisplayPath("/photos/a.png", thumbnail.CacheDirFor("/photos"))
package thumbnail
