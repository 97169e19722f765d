package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground is composited under transparent pixels when encoding to
// a format without alpha.
const DefaultBackground = "#000000"

// Encoded is an image serialized in one Format.
type Encoded struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// Dimensions returns the size of the encoded image.
func (e *Encoded) Dimensions() Dimensions {
	return Dimensions{Width: e.Width, Height: e.Height}
}

// Base64 returns the data base64-encoded.
func (e *Encoded) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Data)
}

// DataURL returns the data as a data: URL.
func (e *Encoded) DataURL() string {
	return "data:" + e.Format.MimeType() + ";base64," + e.Base64()
}

// Encoder serializes surfaces.
type Encoder struct {
	background     color.Color
	pngCompression png.CompressionLevel
}

// ParseBackground parses a hex color such as "#1a2b3c".
func ParseBackground(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParsePNGCompression accepts "default", "none", "fast" and "best".
func ParsePNGCompression(s string) (png.CompressionLevel, error) {
	switch s {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("unknown png compression: %s", s)
	}
}

// NewEncoder returns an Encoder. A nil background means opaque black.
func NewEncoder(background color.Color, compression png.CompressionLevel) *Encoder {
	if background == nil {
		background = color.NRGBA{A: 255}
	}
	return &Encoder{background: background, pngCompression: compression}
}

// Encode serializes s in format f. quality is used only for JPEG and is
// clamped to [0,1].
func (e *Encoder) Encode(s *Surface, f Format, quality float64) (*Encoded, error) {
	if s == nil {
		return nil, UsageError("encode", "nothing to encode")
	}
	data, err := e.encodeImage(s.img, f, quality)
	if err != nil {
		return nil, EncodeError("encode", err)
	}
	return &Encoded{Data: data, Format: f, Width: s.Width(), Height: s.Height()}, nil
}

// Convert re-decodes src and encodes it again in format f. Any failure to
// decode, draw or encode is an ErrEncode.
func (e *Encoder) Convert(ctx context.Context, src *Encoded, f Format, quality float64) (*Encoded, error) {
	if src == nil {
		return nil, UsageError("convert", "nothing to convert")
	}

	h, err := Decode(ctx, bytes.NewReader(src.Data), nil)
	if err != nil {
		return nil, EncodeError("convert", err)
	}
	s, err := NewSurface(h.info.Width, h.info.Height)
	if err != nil {
		return nil, EncodeError("convert", err)
	}
	s.DrawImage(h.img)

	data, err := e.encodeImage(s.img, f, quality)
	if err != nil {
		return nil, EncodeError("convert", err)
	}
	return &Encoded{Data: data, Format: f, Width: s.Width(), Height: s.Height()}, nil
}

func (e *Encoder) encodeImage(img *image.NRGBA, f Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(e.pngCompression)); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatJPEG:
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), e.background)
		flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality))); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %q", f)
	}
	return buf.Bytes(), nil
}
