package imaging

import (
	"fmt"
	"image"
	"image/draw"
)

// MaxSurfacePixels is the largest area a Surface may have.
const MaxSurfacePixels = 16384 * 16384

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate rejects non-positive sides.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return UsageError("dimensions", "width and height must be positive, got %dx%d", d.Width, d.Height)
	}
	return nil
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// CropArea is a rectangle in source-image pixel coordinates.
type CropArea struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the area as a source rectangle.
func (a CropArea) Rect() image.Rectangle {
	return image.Rect(a.X, a.Y, a.X+a.Width, a.Y+a.Height)
}

// Within checks that the area lies inside a sourceWidth x sourceHeight image
// and is not empty.
func (a CropArea) Within(sourceWidth, sourceHeight int) error {
	if a.Width <= 0 || a.Height <= 0 {
		return UsageError("crop", "crop area must have positive size, got %dx%d", a.Width, a.Height)
	}
	// Compare against the remaining room so large offsets cannot overflow.
	if a.X < 0 || a.Y < 0 || a.X > sourceWidth || a.Y > sourceHeight ||
		a.Width > sourceWidth-a.X || a.Height > sourceHeight-a.Y {
		return UsageError("crop", "crop area (%d,%d %dx%d) outside image bounds %dx%d",
			a.X, a.Y, a.Width, a.Height, sourceWidth, sourceHeight)
	}
	return nil
}

// Surface is an off-screen drawable bitmap with its origin at (0,0).
type Surface struct {
	img *image.NRGBA
}

// NewSurface allocates a transparent surface of the given size.
func NewSurface(width, height int) (*Surface, error) {
	if err := checkSurfaceSize(width, height); err != nil {
		return nil, SurfaceError("allocate", err)
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// checkSurfaceSize reports whether a width x height surface may be
// allocated, without allocating it.
func checkSurfaceSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	// Divide instead of multiplying so huge sides cannot wrap around.
	if width > MaxSurfacePixels/height {
		return fmt.Errorf("surface %dx%d exceeds %d pixels", width, height, MaxSurfacePixels)
	}
	return nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Dimensions returns the surface size.
func (s *Surface) Dimensions() Dimensions {
	return Dimensions{Width: s.Width(), Height: s.Height()}
}

// Image exposes the pixel buffer. Callers must not modify it.
func (s *Surface) Image() image.Image { return s.img }

// DrawImage draws src with its top-left corner at the surface origin.
func (s *Surface) DrawImage(src image.Image) {
	b := src.Bounds()
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
}

func surfaceFrom(img *image.NRGBA) (*Surface, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, SurfaceError("draw", fmt.Errorf("resampler produced empty surface"))
	}
	if b.Min != (image.Point{}) {
		img = &image.NRGBA{
			Pix:    img.Pix,
			Stride: img.Stride,
			Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
		}
	}
	return &Surface{img: img}, nil
}
