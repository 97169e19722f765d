package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Handle is a decoded image. It is immutable once returned by Decode.
type Handle struct {
	img  image.Image
	info Info
}

// Info contains metadata about a decoded image.
type Info struct {
	// Width is the natural width in pixels, after EXIF orientation.
	Width int `json:"width"`

	// Height is the natural height in pixels, after EXIF orientation.
	Height int `json:"height"`

	// Format is the detected codec: "png", "jpeg", "gif", "webp", "bmp" or "tiff".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded color model carries alpha.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded input in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// Image returns the decoded pixels.
func (h *Handle) Image() image.Image { return h.img }

// Info returns the image metadata.
func (h *Handle) Info() Info { return h.info }

// Dimensions returns the natural size of the image.
func (h *Handle) Dimensions() Dimensions {
	return Dimensions{Width: h.info.Width, Height: h.info.Height}
}

// Decode reads r to the end and decodes it into a Handle.
//
// The call blocks until all bytes are read and the pixels are decoded. ctx is
// consulted once before any work starts; a decode in progress is not aborted.
//
// If preview is non-nil it is resized to the natural dimensions and the image
// is drawn onto it once. Decode is atomic: on failure no handle is returned
// and preview is left untouched.
//
// Every failure is an ErrDecode.
func Decode(ctx context.Context, r io.Reader, preview *Surface) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, DecodeError("decode", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, DecodeError("read", fmt.Errorf("failed to read image: %w", err))
	}
	return decodeBytes(data, preview)
}

// DecodeFile opens path and decodes it like Decode.
func DecodeFile(ctx context.Context, path string, preview *Surface) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, DecodeError("decode", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, DecodeError("open", fmt.Errorf("failed to open image: %w", err))
	}
	defer f.Close()

	return Decode(ctx, f, preview)
}

func decodeBytes(data []byte, preview *Surface) (*Handle, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, DecodeError("decode", fmt.Errorf("failed to decode image: %w", err))
	}
	// Reject oversized headers before the pixel buffer is allocated.
	if err := checkSurfaceSize(cfg.Width, cfg.Height); err != nil {
		return nil, DecodeError("decode", fmt.Errorf("image too large: %w", err))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, DecodeError("decode", fmt.Errorf("failed to decode image: %w", err))
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, DecodeError("decode", fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy()))
	}

	if preview != nil {
		// Draw onto a scratch surface first so a failure leaves preview as it was.
		scratch, err := NewSurface(bounds.Dx(), bounds.Dy())
		if err != nil {
			return nil, DecodeError("preview", err)
		}
		scratch.DrawImage(img)
		*preview = *scratch
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch v := img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	case *image.Paletted:
		hasAlpha = palettedHasAlpha(v)
	}

	return &Handle{
		img: img,
		info: Info{
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			Format:     format,
			ColorDepth: colorDepth,
			HasAlpha:   hasAlpha,
			SizeBytes:  int64(len(data)),
		},
	}, nil
}

func palettedHasAlpha(p *image.Paletted) bool {
	for _, c := range p.Palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}
