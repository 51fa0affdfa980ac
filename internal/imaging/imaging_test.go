package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProcessConvertsToJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(encodePNG(t, 100, 80)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg output, got %q", result.MIME)
	}

	img, format, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg format, got %q", format)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("small image should not be resized, got %v", img.Bounds())
	}
}

func TestProcessDownscalesLargeImages(t *testing.T) {
	result, err := Process(bytes.NewReader(encodePNG(t, 2048, 512)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Bounds().Dx() != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 256 {
		t.Errorf("expected aspect-preserving height 256, got %d", img.Bounds().Dy())
	}
}

func TestProcessRejectsNonImages(t *testing.T) {
	if _, err := Process(strings.NewReader("<html>not an image</html>")); err == nil {
		t.Error("expected error for non-image input")
	}
	// GIFs decode but are not accepted.
	gif := "GIF89a" + strings.Repeat("\x00", 32)
	if _, err := Process(strings.NewReader(gif)); err == nil {
		t.Error("expected error for GIF input")
	}
}
