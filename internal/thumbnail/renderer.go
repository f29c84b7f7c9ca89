package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"time"

	"image-gallery/internal/filesystem"
	"image-gallery/internal/logging"
	"image-gallery/internal/metrics"
	"image-gallery/internal/vips"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultSize is the default edge length of a square thumbnail.
	DefaultSize = 320

	// DefaultQuality is the default JPEG quality.
	DefaultQuality = 85

	// MaxImagePixels is the largest source (width * height) decoded at full
	// size. Larger sources are shrunk during decode by libvips when it is
	// available. ~20MP uses ~80MB as NRGBA.
	MaxImagePixels = 20_000_000

	// maxVipsDimension bounds the libvips decode of an oversized source.
	maxVipsDimension = 4096
)

// Render stages reported in RenderError.
const (
	StageDecode = "decode"
	StageResize = "resize"
	StageEncode = "encode"
)

// ErrRender matches every error returned by Renderer.
var ErrRender = errors.New("thumbnail render failed")

// RenderError describes which stage of rendering failed for a source.
type RenderError struct {
	Path  string
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("thumbnail %s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("thumbnail %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap exposes both ErrRender and the underlying cause to errors.Is/As.
func (e *RenderError) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// FileRenderer renders the file at path to encoded thumbnail bytes.
type FileRenderer interface {
	RenderFile(path string) ([]byte, error)
}

// White is the canvas and flattening color.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer produces fixed-size JPEG thumbnails. The source is fitted inside
// Width x Height without cropping, flattened over white if it carries
// transparency, and centered on a Background canvas.
type Renderer struct {
	Width      int
	Height     int
	Quality    int
	Background color.NRGBA

	// UseVips enables the libvips decoder for sources the Go decoders reject
	// and for sources above MaxImagePixels.
	UseVips bool

	retry filesystem.RetryConfig
}

// NewRenderer returns a renderer producing size x size thumbnails at the
// given JPEG quality. Non-positive values select the defaults.
func NewRenderer(size, quality int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Renderer{
		Width:      size,
		Height:     size,
		Quality:    quality,
		Background: White,
		retry:      filesystem.DefaultRetryConfig(),
	}
}

// RenderFile reads and renders the image at path.
func (r *Renderer) RenderFile(path string) ([]byte, error) {
	start := time.Now()

	img, err := r.decodeFile(path)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, &RenderError{Path: path, Stage: StageDecode, Err: err}
	}

	out, err := r.compose(img)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		var re *RenderError
		if errors.As(err, &re) {
			re.Path = path
		}
		return nil, err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	logging.Debug("Thumbnail rendered for %s in %v", path, time.Since(start))
	return out, nil
}

// Render decodes an image from src and renders it. libvips is not used
// because it needs a file path.
func (r *Renderer) Render(src io.Reader) ([]byte, error) {
	start := time.Now()

	data, err := io.ReadAll(src)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, &RenderError{Stage: StageDecode, Err: err}
	}
	img, err := decodeBytes(data)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, &RenderError{Stage: StageDecode, Err: err}
	}

	out, err := r.compose(img)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	return out, nil
}

func (r *Renderer) decodeFile(path string) (image.Image, error) {
	start := time.Now()
	defer func() {
		metrics.ThumbnailGenerationDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())
	}()

	f, err := filesystem.OpenWithRetry(path, r.retry)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	useVips := r.UseVips && vips.Available()

	if useVips {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width*cfg.Height > MaxImagePixels {
			logging.Info("Constraining large image %s (%dx%d) with libvips", path, cfg.Width, cfg.Height)
			if img, err := vips.Decode(path, maxVipsDimension); err == nil {
				metrics.ThumbnailImageDecodeByFormat.WithLabelValues("vips").Inc()
				return img, nil
			}
		}
	}

	img, goErr := decodeBytes(data)
	if goErr == nil {
		return img, nil
	}
	if !useVips {
		return nil, goErr
	}

	logging.Debug("Go decoders failed for %s: %v, trying libvips", path, goErr)
	img, err = vips.Decode(path, maxVipsDimension)
	if err != nil {
		return nil, fmt.Errorf("all decoders failed: %w (libvips: %v)", goErr, err)
	}
	metrics.ThumbnailImageDecodeByFormat.WithLabelValues("vips").Inc()
	return img, nil
}

// decodeBytes decodes data with EXIF auto-orientation applied.
func decodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}

	format := "unknown"
	if _, f, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		format = f
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	metrics.ThumbnailImageDecodeByFormat.WithLabelValues(format).Inc()
	return img, nil
}

// compose fits img into the target box and encodes the result.
func (r *Renderer) compose(img image.Image) ([]byte, error) {
	canvas, err := r.layout(img)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, opaqueRGBA(canvas), imaging.JPEG, imaging.JPEGQuality(r.Quality)); err != nil {
		return nil, &RenderError{Stage: StageEncode, Err: err}
	}
	metrics.ThumbnailGenerationDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())

	return buf.Bytes(), nil
}

// layout resizes img to fit the target box and centers it on an opaque
// canvas of exactly Width x Height.
func (r *Renderer) layout(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &RenderError{Stage: StageResize, Err: fmt.Errorf("invalid source size %dx%d", b.Dx(), b.Dy())}
	}

	start := time.Now()
	newW, newH := FitSize(b.Dx(), b.Dy(), r.Width, r.Height)
	resized := imaging.Resize(imaging.Clone(img), newW, newH, imaging.Lanczos)
	metrics.ThumbnailGenerationDuration.WithLabelValues("resize").Observe(time.Since(start).Seconds())

	start = time.Now()
	canvas := imaging.New(r.Width, r.Height, r.background())
	offset := image.Pt((r.Width-newW)/2, (r.Height-newH)/2)
	var tile image.Image = resized
	if hasTransparency(resized) {
		tile = flatten(resized)
	}
	xdraw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(newW, newH))}, tile, image.Point{}, xdraw.Src)
	metrics.ThumbnailGenerationDuration.WithLabelValues("compose").Observe(time.Since(start).Seconds())

	return canvas, nil
}

// background returns the opaque canvas color. A zero Background means white.
func (r *Renderer) background() color.NRGBA {
	if r.Background == (color.NRGBA{}) {
		return White
	}
	bg := r.Background
	bg.A = 0xff
	return bg
}

// FitSize scales srcW x srcH uniformly to fit inside dstW x dstH, rounding
// each side and never returning less than 1.
func FitSize(srcW, srcH, dstW, dstH int) (int, int) {
	ratio := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	w := clamp(int(math.Round(float64(srcW)*ratio)), 1, dstW)
	h := clamp(int(math.Round(float64(srcH)*ratio)), 1, dstH)
	return w, h
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hasTransparency reports whether any pixel of img is not fully opaque.
func hasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

// flatten composites img over an opaque white tile of the same size.
func flatten(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), White)
	xdraw.Draw(bg, bg.Bounds(), img, b.Min, xdraw.Over)
	return bg
}

// opaqueRGBA copies an opaque NRGBA canvas into an RGBA image so the JPEG
// encoder takes its fast path.
func opaqueRGBA(img *image.NRGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}
