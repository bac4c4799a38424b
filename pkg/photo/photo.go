package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	"github.com/nikogura/ats-cv/pkg/document"
	"github.com/nikogura/ats-cv/pkg/source"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// DisplayHeight is the rendered photo height in inches.
	DisplayHeight = 1.4

	// MaxPixelHeight bounds the embedded bitmap; taller photos are downscaled.
	MaxPixelHeight = 800

	jpegQuality = 90
)

// ResourceError reports a photo that is missing, unreadable or not a supported image.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("photo %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Load reads a photo from a file path or URL and prepares it for embedding.
// The file is read once and not held open.
func Load(ctx context.Context, path string) (img document.Image, err error) {
	var data []byte
	data, err = source.Fetch(ctx, path)
	if err != nil {
		err = &ResourceError{Path: path, Err: err}
		return img, err
	}

	img, err = Decode(data)
	if err != nil {
		err = &ResourceError{Path: path, Err: err}
		return img, err
	}

	return img, err
}

// Decode validates image bytes and normalizes them to PNG, JPEG or GIF, which
// every word processor can display. Other formats are transcoded to PNG.
func Decode(data []byte) (img document.Image, err error) {
	var cfg image.Config
	var format string
	cfg, format, err = image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		err = errors.Wrap(err, "unsupported or corrupt image")
		return img, err
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		err = errors.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
		return img, err
	}

	if embeddable(format) && cfg.Height <= MaxPixelHeight {
		img = newImage(format, data, cfg.Width, cfg.Height)
		return img, err
	}

	var src image.Image
	src, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		err = errors.Wrapf(err, "failed to decode %s image", format)
		return img, err
	}

	if src.Bounds().Dy() > MaxPixelHeight {
		src = scaleToHeight(src, MaxPixelHeight)
	}

	outFormat := "png"
	if format == "jpeg" {
		outFormat = "jpeg"
	}

	var buf bytes.Buffer
	if outFormat == "jpeg" {
		err = jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, src)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to encode %s", outFormat)
		return img, err
	}

	b := src.Bounds()
	img = newImage(outFormat, buf.Bytes(), b.Dx(), b.Dy())
	return img, err
}

func embeddable(format string) (ok bool) {
	switch format {
	case "png", "jpeg", "gif":
		ok = true
	}
	return ok
}

func newImage(format string, data []byte, width, height int) (img document.Image) {
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	img = document.Image{
		Name:        "photo." + ext,
		Format:      format,
		Data:        data,
		PixelWidth:  width,
		PixelHeight: height,
		Height:      DisplayHeight,
	}
	return img
}

// scaleToHeight resamples src to the given height, keeping the aspect ratio.
func scaleToHeight(src image.Image, height int) (dst *image.RGBA) {
	b := src.Bounds()
	width := b.Dx() * height / b.Dy()
	if width < 1 {
		width = 1
	}
	dst = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
