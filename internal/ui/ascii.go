package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/nfnt/resize"
	"github.com/qeesung/image2ascii/ascii"
	"github.com/qeesung/image2ascii/convert"
)

// asciiRenderer draws images as rows of colored characters.
type asciiRenderer struct {
	resizeHandler  *convert.ImageResizeHandler
	pixelConverter ascii.PixelConverter
}

func newASCIIRenderer() *asciiRenderer {
	return &asciiRenderer{
		resizeHandler:  convert.NewResizeHandler().(*convert.ImageResizeHandler),
		pixelConverter: ascii.NewPixelConverter(),
	}
}

// Render fits img into a w x h character box, keeping its aspect ratio,
// and returns one string per row along with the row width in characters.
func (r *asciiRenderer) Render(img image.Image, w, h int) ([]string, int) {
	if img == nil || w <= 0 || h <= 0 {
		return nil, 0
	}
	sz := img.Bounds()
	neww, newh := r.resizeHandler.CalcFitSize(float64(w), float64(h), float64(sz.Dx()), float64(sz.Dy()))
	if neww <= 0 || newh <= 0 {
		return nil, 0
	}
	small := resize.Resize(uint(neww), uint(newh), img, resize.Lanczos3)

	b := small.Bounds()
	rows := make([]string, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sb := new(strings.Builder)
		for x := b.Min.X; x < b.Max.X; x++ {
			pixel := color.NRGBAModel.Convert(small.At(x, y))
			sb.WriteString(r.pixelConverter.ConvertPixelToASCII(pixel, &ascii.DefaultOptions))
		}
		rows = append(rows, sb.String())
	}
	return rows, b.Dx()
}
