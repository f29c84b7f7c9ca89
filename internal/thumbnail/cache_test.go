package thumbnail

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingRenderer wraps a FileRenderer and counts calls.
type countingRenderer struct {
	inner FileRenderer
	calls atomic.Int32
}

func (c *countingRenderer) RenderFile(path string) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.RenderFile(path)
}

type failingRenderer struct{ err error }

func (f failingRenderer) RenderFile(path string) ([]byte, error) {
	return nil, &RenderError{Path: path, Stage: StageEncode, Err: f.err}
}

func setupGallery(t *testing.T) (dir, img, cacheDir string) {
	t.Helper()
	dir = t.TempDir()
	img = filepath.Join(dir, "a.png")
	writePNG(t, img, solidImage(64, 32, color.NRGBA{R: 200, G: 30, B: 30, A: 255}))
	return dir, img, CacheDirFor(dir)
}

func TestEnsureCreatesThumbnail(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	cache := NewCache(NewRenderer(32, 85))

	got, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	want, err := CachePath(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Ensure() = %q, want %q", got, want)
	}

	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 32 {
		t.Errorf("thumbnail = %dx%d, want 32x32", cfg.Width, cfg.Height)
	}

	src, _ := os.Stat(img)
	thumb, _ := os.Stat(got)
	if !thumb.ModTime().Equal(src.ModTime()) {
		t.Errorf("thumbnail mtime = %v, want source mtime %v", thumb.ModTime(), src.ModTime())
	}
	if perm := thumb.Mode().Perm(); perm != 0o644 {
		t.Errorf("thumbnail mode = %v, want 0644", perm)
	}
}

func TestEnsureIdempotent(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	r := &countingRenderer{inner: NewRenderer(32, 85)}
	cache := NewCache(r)

	first, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	info1, _ := os.Stat(first)
	data1, _ := os.ReadFile(first)

	second, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	info2, _ := os.Stat(second)
	data2, _ := os.ReadFile(second)

	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
	if !info1.ModTime().Equal(info2.ModTime()) {
		t.Errorf("mtime changed: %v -> %v", info1.ModTime(), info2.ModTime())
	}
	if !bytes.Equal(data1, data2) {
		t.Error("thumbnail content changed on second call")
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("renderer called %d times, want 1", n)
	}
}

func TestEnsureRegeneratesStale(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	r := &countingRenderer{inner: NewRenderer(32, 85)}
	cache := NewCache(r)

	thumbPath, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}

	newer := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := os.Chtimes(img, newer, newer); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.Ensure(img, cacheDir); err != nil {
		t.Fatal(err)
	}
	if n := r.calls.Load(); n != 2 {
		t.Errorf("renderer called %d times, want 2", n)
	}

	info, err := os.Stat(thumbPath)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(newer) {
		t.Errorf("thumbnail mtime = %v, want %v", info.ModTime(), newer)
	}
}

func TestEnsureKeepsNewerThumbnail(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	r := &countingRenderer{inner: NewRenderer(32, 85)}
	cache := NewCache(r)

	thumbPath, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}

	older := time.Now().Add(-time.Hour)
	if err := os.Chtimes(img, older, older); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Ensure(img, cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if got != thumbPath || r.calls.Load() != 1 {
		t.Errorf("older source caused a re-render (calls = %d)", r.calls.Load())
	}
}

func TestEnsureLeavesNoTempFiles(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	cache := NewCache(NewRenderer(16, 85))

	if _, err := cache.Ensure(img, cacheDir); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("cache dir has %v, want exactly one thumbnail", names)
	}
}

func TestEnsureErrors(t *testing.T) {
	dir := t.TempDir()
	cacheDir := CacheDirFor(dir)

	t.Run("missing source", func(t *testing.T) {
		_, err := NewCache(NewRenderer(16, 85)).Ensure(filepath.Join(dir, "gone.png"), cacheDir)
		var ce *CacheError
		if !errors.As(err, &ce) || ce.Stage != StageStat {
			t.Errorf("error = %v, want stat CacheError", err)
		}
	})

	t.Run("directory source", func(t *testing.T) {
		_, err := NewCache(NewRenderer(16, 85)).Ensure(dir, cacheDir)
		var ce *CacheError
		if !errors.As(err, &ce) || ce.Stage != StageStat {
			t.Errorf("error = %v, want stat CacheError", err)
		}
	})

	t.Run("render failure", func(t *testing.T) {
		img := filepath.Join(dir, "b.png")
		writePNG(t, img, solidImage(4, 4, color.NRGBA{A: 255}))
		boom := errors.New("boom")

		_, err := NewCache(failingRenderer{err: boom}).Ensure(img, cacheDir)
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want boom", err)
		}
		if stage := stageOf(err); stage != StageEncode {
			t.Errorf("stageOf() = %q, want %q", stage, StageEncode)
		}
	})

	t.Run("cache dir is a file", func(t *testing.T) {
		img := filepath.Join(dir, "c.png")
		writePNG(t, img, solidImage(4, 4, color.NRGBA{A: 255}))
		blocker := filepath.Join(dir, "blocked")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := NewCache(NewRenderer(16, 85)).Ensure(img, blocker)
		var ce *CacheError
		if !errors.As(err, &ce) || ce.Stage != StageMkdir {
			t.Errorf("error = %v, want mkdir CacheError", err)
		}
	})
}

func TestGetDisplayPathFallsBack(t *testing.T) {
	dir := t.TempDir()
	cacheDir := CacheDirFor(dir)
	cache := NewCache(NewRenderer(16, 85))

	tests := []struct {
		name    string
		content []byte
	}{
		{"zero.png", []byte{}},
		{"corrupt.jpg", []byte("\xff\xd8\xff\xe0 this is not really a jpeg")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			if got := cache.GetDisplayPath(path, cacheDir); got != path {
				t.Errorf("GetDisplayPath() = %q, want original %q", got, path)
			}
		})
	}

	missing := filepath.Join(dir, "missing.png")
	if got := cache.GetDisplayPath(missing, cacheDir); got != missing {
		t.Errorf("GetDisplayPath(missing) = %q, want %q", got, missing)
	}
}

func TestGetDisplayPathReturnsThumbnail(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	got := NewCache(NewRenderer(16, 85)).GetDisplayPath(img, cacheDir)
	if filepath.Dir(got) != cacheDir {
		t.Errorf("GetDisplayPath() = %q, want a file in %q", got, cacheDir)
	}
}

func TestEnsureConcurrent(t *testing.T) {
	_, img, cacheDir := setupGallery(t)
	cache := NewCache(NewRenderer(32, 85))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Ensure(img, cacheDir); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Ensure() error = %v", err)
	}

	thumbPath, _ := CachePath(img, cacheDir)
	data, err := os.ReadFile(thumbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("thumbnail corrupted by concurrent writers: %v", err)
	}
}
