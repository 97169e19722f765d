package imaging

import (
	"fmt"
	"math"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultJPEGQuality is the quality used when none is given, on the [0,1] scale.
const DefaultJPEGQuality = 0.92

// ParseFormat accepts "png", "jpeg" and "jpg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (want png or jpeg)", s)
	}
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// MimeType returns the media type of the encoding.
func (f Format) MimeType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Lossless reports whether quality is ignored for this format.
func (f Format) Lossless() bool {
	return f != FormatJPEG
}

func (f Format) String() string {
	return string(f)
}

// ClampQuality limits q to [0,1]. NaN yields the default quality.
func ClampQuality(q float64) float64 {
	if math.IsNaN(q) {
		return DefaultJPEGQuality
	}
	return math.Max(0, math.Min(1, q))
}

// jpegQuality maps a [0,1] quality to the encoder's 1..100 scale.
func jpegQuality(q float64) int {
	v := int(math.Round(ClampQuality(q) * 100))
	if v < 1 {
		v = 1
	}
	return v
}
