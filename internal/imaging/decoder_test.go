package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// newSolidImage creates an in-memory image filled with c.
func newSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// newPatternImage creates an image with four colored quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func newPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.RGBA{255, 255, 255, 255} // White
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// encodePNG encodes img as PNG bytes.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// mustDecode decodes PNG bytes of img into a Handle.
func mustDecode(t *testing.T, img image.Image) *Handle {
	t.Helper()
	h, err := Decode(context.Background(), bytes.NewReader(encodePNG(t, img)), nil)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return h
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestDecode_NaturalDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"square", 100, 100},
		{"landscape", 1024, 768},
		{"portrait", 30, 70},
		{"single pixel", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustDecode(t, newSolidImage(tt.width, tt.height, color.RGBA{10, 20, 30, 255}))
			info := h.Info()
			if info.Width != tt.width || info.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", info.Width, info.Height, tt.width, tt.height)
			}
			if info.Format != "png" {
				t.Errorf("Format: got %s, want png", info.Format)
			}
			if h.Dimensions() != (Dimensions{tt.width, tt.height}) {
				t.Errorf("Dimensions(): got %v", h.Dimensions())
			}
		})
	}
}

func TestDecode_Formats(t *testing.T) {
	img := newSolidImage(40, 30, color.RGBA{200, 100, 50, 255})

	var jpegBuf, gifBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}

	tests := []struct {
		name       string
		data       []byte
		wantFormat string
	}{
		{"png", encodePNG(t, img), "png"},
		{"jpeg", jpegBuf.Bytes(), "jpeg"},
		{"gif", gifBuf.Bytes(), "gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Decode(context.Background(), bytes.NewReader(tt.data), nil)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			info := h.Info()
			if info.Format != tt.wantFormat {
				t.Errorf("Format: got %s, want %s", info.Format, tt.wantFormat)
			}
			if info.Width != 40 || info.Height != 30 {
				t.Errorf("dimensions: got %dx%d, want 40x30", info.Width, info.Height)
			}
			if info.SizeBytes != int64(len(tt.data)) {
				t.Errorf("SizeBytes: got %d, want %d", info.SizeBytes, len(tt.data))
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("this is not an image")},
		{"truncated png", encodePNG(t, newSolidImage(20, 20, color.White))[:30]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Decode(context.Background(), bytes.NewReader(tt.data), nil)
			if err == nil {
				t.Fatal("Decode should fail for invalid data")
			}
			if h != nil {
				t.Error("Decode returned a handle alongside an error")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("error kind: got %v, want ErrDecode", err)
			}
		})
	}
}

// pngWithHeaderSize returns a small PNG whose IHDR claims width x height.
func pngWithHeaderSize(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := encodePNG(t, newSolidImage(1, 1, color.White))
	// Signature (8) + chunk length (4) + "IHDR" (4), then width and height.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	// The CRC covers the chunk type and its 13 data bytes.
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecode_RejectsOversizedHeader(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
	}{
		{"square", 17000, 17000},
		{"wide", 1 << 30, 1},
		{"tall", 2, MaxSurfacePixels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngWithHeaderSize(t, tt.width, tt.height)
			if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err != nil || cfg.Width != int(tt.width) {
				t.Fatalf("crafted header not readable: %v", err)
			}

			h, err := Decode(context.Background(), bytes.NewReader(data), nil)
			if h != nil {
				t.Error("Decode returned a handle for an oversized image")
			}
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("error kind: got %v, want ErrDecode", err)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDecode_ReadError(t *testing.T) {
	_, err := Decode(context.Background(), failingReader{}, nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error kind: got %v, want ErrDecode", err)
	}
}

func TestDecode_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, bytes.NewReader(encodePNG(t, newSolidImage(5, 5, color.White))), nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error kind: got %v, want ErrDecode", err)
	}
}

func TestDecode_DrawsPreview(t *testing.T) {
	preview, err := NewSurface(1, 1)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}

	data := encodePNG(t, newPatternImage(60, 40))
	if _, err := Decode(context.Background(), bytes.NewReader(data), preview); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if preview.Width() != 60 || preview.Height() != 40 {
		t.Fatalf("preview size: got %dx%d, want 60x40", preview.Width(), preview.Height())
	}
	if r, g, b := rgbAt(preview.Image(), 10, 10); r != 255 || g != 0 || b != 0 {
		t.Errorf("preview top-left: got (%d,%d,%d), want red", r, g, b)
	}
	if r, g, b := rgbAt(preview.Image(), 50, 30); r != 255 || g != 255 || b != 255 {
		t.Errorf("preview bottom-right: got (%d,%d,%d), want white", r, g, b)
	}
}

func TestDecode_FailureKeepsPreview(t *testing.T) {
	preview, err := NewSurface(7, 3)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}

	if _, err := Decode(context.Background(), bytes.NewReader([]byte("garbage")), preview); err == nil {
		t.Fatal("Decode should fail")
	}
	if preview.Width() != 7 || preview.Height() != 3 {
		t.Errorf("preview changed on failure: got %dx%d", preview.Width(), preview.Height())
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, encodePNG(t, newSolidImage(12, 9, color.Black)), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	h, err := DecodeFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if h.Info().Width != 12 || h.Info().Height != 9 {
		t.Errorf("dimensions: got %dx%d, want 12x9", h.Info().Width, h.Info().Height)
	}
}

func TestDecodeFile_NonExistent(t *testing.T) {
	_, err := DecodeFile(context.Background(), "/nonexistent/path/to/image.png", nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error kind: got %v, want ErrDecode", err)
	}
}

func TestDecode_ColorInfo(t *testing.T) {
	tests := []struct {
		name      string
		img       image.Image
		wantDepth string
		wantAlpha bool
	}{
		{"rgba", newSolidImage(4, 4, color.RGBA{1, 2, 3, 128}), "8-bit", true},
		{"gray", image.NewGray(image.Rect(0, 0, 4, 4)), "8-bit", false},
		{"gray16", image.NewGray16(image.Rect(0, 0, 4, 4)), "16-bit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := mustDecode(t, tt.img).Info()
			if info.ColorDepth != tt.wantDepth {
				t.Errorf("ColorDepth: got %s, want %s", info.ColorDepth, tt.wantDepth)
			}
			if info.HasAlpha != tt.wantAlpha {
				t.Errorf("HasAlpha: got %v, want %v", info.HasAlpha, tt.wantAlpha)
			}
		})
	}
}
