package photo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) (img *image.RGBA) {
	img = image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) (data []byte) {
	t.Helper()
	var buf bytes.Buffer
	err := png.Encode(&buf, testImage(w, h))
	if err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	data = buf.Bytes()
	err = os.WriteFile(path, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write PNG: %v", err)
	}
	return data
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.png")
	data := writePNG(t, path, 30, 40)

	img, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to load photo: %v", err)
	}

	if img.Format != "png" {
		t.Errorf("Expected png, got %s", img.Format)
	}
	if !bytes.Equal(img.Data, data) {
		t.Error("Expected PNG bytes to be embedded unchanged")
	}
	if img.PixelWidth != 30 || img.PixelHeight != 40 {
		t.Errorf("Expected 30x40, got %dx%d", img.PixelWidth, img.PixelHeight)
	}
	if img.Height != DisplayHeight {
		t.Errorf("Expected display height %f, got %f", DisplayHeight, img.Height)
	}
}

func TestLoadBMPTranscodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.bmp")
	var buf bytes.Buffer
	err := bmp.Encode(&buf, testImage(20, 20))
	if err != nil {
		t.Fatalf("Failed to encode BMP: %v", err)
	}
	err = os.WriteFile(path, buf.Bytes(), 0600)
	if err != nil {
		t.Fatalf("Failed to write BMP: %v", err)
	}

	img, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to load BMP photo: %v", err)
	}

	if img.Format != "png" || img.Name != "photo.png" {
		t.Errorf("Expected BMP transcoded to png, got %s (%s)", img.Format, img.Name)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil || format != "png" {
		t.Errorf("Embedded data is not PNG: %s, %v", format, err)
	}
}

func TestLoadDownscalesTallPhoto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tall.png")
	writePNG(t, path, 100, 1000)

	img, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to load photo: %v", err)
	}

	if img.PixelHeight != MaxPixelHeight || img.PixelWidth != 80 {
		t.Errorf("Expected 80x%d, got %dx%d", MaxPixelHeight, img.PixelWidth, img.PixelHeight)
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()
	textFile := filepath.Join(tmpDir, "notes.png")
	err := os.WriteFile(textFile, []byte("definitely not an image"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(tmpDir, "missing.jpg")},
		{"not an image", textFile},
		{"directory", tmpDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.path)

			var resErr *ResourceError
			if !errors.As(err, &resErr) {
				t.Fatalf("Expected ResourceError, got %v", err)
			}
			if resErr.Path != tt.path {
				t.Errorf("Expected path %s, got %s", tt.path, resErr.Path)
			}
		})
	}
}
