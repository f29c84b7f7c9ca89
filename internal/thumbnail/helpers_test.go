package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// visibleBounds returns the bounding box of pixels that differ from white.
func visibleBounds(img *image.NRGBA) image.Rectangle {
	var r image.Rectangle
	first := true
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == White {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if first {
				r = px
				first = false
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}
