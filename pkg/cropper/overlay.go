package cropper

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/lineprep/pkg/types"
)

var overlayColor = color.NRGBA{255, 0, 0, 255}

// DrawOverlay returns a copy of img with the content box outlined in red.
// The outline is drawn just outside the box where the image leaves room, so
// the content itself stays visible.
func DrawOverlay(img image.Image, box types.BoundingBox) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := int(math.Max(1, 0.004*float64(min(w, h))))

	x0, y0 := box.XMin-stroke, box.YMin-stroke
	x1, y1 := box.XMax+1+stroke, box.YMax+1+stroke
	for s := 0; s < stroke; s++ {
		drawHLine(nrgba, y0+s, x0, x1, overlayColor)
		drawHLine(nrgba, y1-1-s, x0, x1, overlayColor)
		drawVLine(nrgba, x0+s, y0, y1, overlayColor)
		drawVLine(nrgba, x1-1-s, y0, y1, overlayColor)
	}
	return nrgba
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
