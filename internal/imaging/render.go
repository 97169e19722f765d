package imaging

import (
	"fmt"
	"image/draw"
)

// Renderer draws decoded images onto new off-screen surfaces. The source
// handle is never modified.
type Renderer struct {
	resampler Resampler
}

// NewRenderer returns a Renderer that scales with r. A nil r selects
// DefaultResampler.
func NewRenderer(r Resampler) *Renderer {
	if r == nil {
		r, _ = NewResampler(DefaultResampler)
	}
	return &Renderer{resampler: r}
}

// Resampler returns the interpolation in use.
func (r *Renderer) Resampler() Resampler { return r.resampler }

// Resize maps the whole image onto a surface of exactly d. Aspect ratio is
// not preserved.
func (r *Renderer) Resize(h *Handle, d Dimensions) (*Surface, error) {
	if h == nil {
		return nil, UsageError("resize", "no image loaded")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	// Oversized targets fail before any resampling work.
	if err := checkSurfaceSize(d.Width, d.Height); err != nil {
		return nil, SurfaceError("resize", err)
	}

	s, err := surfaceFrom(r.resampler.Resample(h.img, d.Width, d.Height))
	if err != nil {
		return nil, err
	}
	if s.Width() != d.Width || s.Height() != d.Height {
		return nil, SurfaceError("resize", fmt.Errorf("%s produced %dx%d, want %s",
			r.resampler.Name(), s.Width(), s.Height(), d))
	}
	return s, nil
}

// Crop copies the rectangle a of the source to the origin of a new surface of
// a.Width x a.Height, without scaling. The area is not clamped: callers
// validate it with CropArea.Within. Pixels outside the source stay transparent.
func (r *Renderer) Crop(h *Handle, a CropArea) (*Surface, error) {
	if h == nil {
		return nil, UsageError("crop", "no image loaded")
	}
	s, err := NewSurface(a.Width, a.Height)
	if err != nil {
		return nil, err
	}

	src := h.img
	origin := src.Bounds().Min
	draw.Draw(s.img, s.img.Bounds(), src, origin.Add(a.Rect().Min), draw.Src)
	return s, nil
}
