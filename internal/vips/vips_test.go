package vips

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-gallery/internal/logging"

	govips "github.com/davidbyttow/govips/v2/vips"
)

// NOTE: govips doesn't support stopping and restarting vips in the same
// process, so nothing here calls Shutdown.

func requireVips(t *testing.T) {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("libvips not available: %v", err)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestInitIdempotent(t *testing.T) {
	requireVips(t)
	if err := Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if !Available() {
		t.Error("Available() = false after Init")
	}
}

func TestDecode(t *testing.T) {
	requireVips(t)
	dir := t.TempDir()

	tests := []struct {
		name         string
		w, h         int
		maxDimension int
		wantW, wantH int
	}{
		{"keeps small image", 40, 20, 0, 40, 20},
		{"shrinks oversized image", 400, 200, 100, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			writePNG(t, path, tt.w, tt.h, color.NRGBA{R: 200, A: 255})

			img, err := Decode(path, tt.maxDimension)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Decode() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDecodePreservesAlpha(t *testing.T) {
	requireVips(t)
	path := filepath.Join(t.TempDir(), "clear.png")
	writePNG(t, path, 8, 8, color.NRGBA{})

	img, err := Decode(path, 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, _, _, a := img.At(4, 4).RGBA(); a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestDecodeErrors(t *testing.T) {
	requireVips(t)
	dir := t.TempDir()

	if _, err := Decode(filepath.Join(dir, "missing.png"), 0); err == nil {
		t.Error("Decode(missing) succeeded")
	}

	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(garbage, 0); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestLogHandlerLevels(t *testing.T) {
	tests := []struct {
		level logging.LogLevel
		want  govips.LogLevel
	}{
		{logging.LevelDebug, govips.LogLevelInfo},
		{logging.LevelInfo, govips.LogLevelWarning},
		{logging.LevelWarn, govips.LogLevelError},
		{logging.LevelError, govips.LogLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			handler, got := logHandler(tt.level)
			if got != tt.want {
				t.Errorf("logHandler(%v) verbosity = %v, want %v", tt.level, got, tt.want)
			}
			handler("test", govips.LogLevelDebug, "message")
		})
	}
}

func TestImportParamsAutoRotate(t *testing.T) {
	params := importParams()
	if !params.AutoRotate.IsSet() || !params.AutoRotate.Get() {
		t.Error("import params do not apply EXIF orientation")
	}
}
