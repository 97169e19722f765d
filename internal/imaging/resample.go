package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// DefaultResampler is the interpolation used when none is configured.
const DefaultResampler = "bilinear"

// Resampler scales a whole image onto a width x height bitmap. Implementations
// must return exactly the requested size and must not modify src.
type Resampler interface {
	Name() string
	Resample(src image.Image, width, height int) *image.NRGBA
}

var resamplers = map[string]Resampler{
	"bilinear":         filterResampler{"bilinear", imaging.Linear},
	"bicubic":          filterResampler{"bicubic", imaging.CatmullRom},
	"lanczos":          filterResampler{"lanczos", imaging.Lanczos},
	"nearest":          filterResampler{"nearest", imaging.NearestNeighbor},
	"bild-linear":      bildResampler{},
	"xdraw-catmullrom": xdrawResampler{},
	"nfnt-lanczos3":    nfntResampler{},
}

// NewResampler returns the resampler registered under name. An empty name
// selects DefaultResampler.
func NewResampler(name string) (Resampler, error) {
	if name == "" {
		name = DefaultResampler
	}
	r, ok := resamplers[name]
	if !ok {
		return nil, fmt.Errorf("unknown resampler: %s", name)
	}
	return r, nil
}

// ResamplerNames lists the registered resampler names in sorted order.
func ResamplerNames() []string {
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type filterResampler struct {
	name   string
	filter imaging.ResampleFilter
}

func (f filterResampler) Name() string { return f.name }

func (f filterResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(src, width, height, f.filter)
}

type bildResampler struct{}

func (bildResampler) Name() string { return "bild-linear" }

func (bildResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	// bild works in premultiplied RGBA; convert back for a uniform surface type.
	return imaging.Clone(transform.Resize(src, width, height, transform.Linear))
}

type xdrawResampler struct{}

func (xdrawResampler) Name() string { return "xdraw-catmullrom" }

func (xdrawResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

type nfntResampler struct{}

func (nfntResampler) Name() string { return "nfnt-lanczos3" }

func (nfntResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	return imaging.Clone(resize.Resize(uint(width), uint(height), src, resize.Lanczos3))
}
