package pagediff

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DiffThreshold is the grayscale sensitivity of the comparison. Intensity
// differences above it mark a pixel as changed; anything at or below it is
// treated as rendering noise.
const DiffThreshold = 30

const (
	primaryAlpha = 120 // changed pixels
	haloAlpha    = 60  // their 4-connected neighbors
)

// Highlight color without alpha; the overlay supplies per-pixel opacity.
var highlightColor = color.NRGBA{R: 255, G: 165, B: 0}

// Highlight compares two same-size rasters and returns an opaque image of the
// base page composited over white, with every differing region marked by a
// translucent orange highlight and a softer halo around it.
func Highlight(base, candidate *image.NRGBA) (*image.NRGBA, error) {
	width, height := base.Bounds().Dx(), base.Bounds().Dy()
	if width != candidate.Bounds().Dx() || height != candidate.Bounds().Dy() {
		return nil, fmt.Errorf("raster sizes differ: %dx%d vs %dx%d",
			width, height, candidate.Bounds().Dx(), candidate.Bounds().Dy())
	}

	mask := diffMask(grayscale(base), grayscale(candidate), DiffThreshold)
	overlay := buildOverlay(mask, width, height)

	background := imaging.New(width, height, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	result := imaging.Overlay(background, base, image.Point{}, 1.0)
	result = imaging.Overlay(result, overlay, image.Point{}, 1.0)
	return result, nil
}

// grayscale projects a raster to single-channel luminance using the standard
// 0.299/0.587/0.114 RGB weights.
func grayscale(img *image.NRGBA) []uint8 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		offset := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := img.Pix[offset : offset+width*4]
		for x := 0; x < width; x++ {
			r := int(row[x*4])
			g := int(row[x*4+1])
			b := int(row[x*4+2])
			out[y*width+x] = uint8((299*r + 587*g + 114*b + 500) / 1000)
		}
	}
	return out
}

// diffMask flags pixels whose grayscale intensities differ by strictly more
// than threshold.
func diffMask(a, b []uint8, threshold uint8) []bool {
	mask := make([]bool, len(a))
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > int(threshold) {
			mask[i] = true
		}
	}
	return mask
}

// buildOverlay paints the translucent highlight layer for a difference mask.
// Changed pixels get the full highlight opacity; pixels adjacent to a change
// get the halo opacity. A changed pixel is never weakened to a halo mark, and
// halo marks do not stack when a pixel borders several changes.
func buildOverlay(mask []bool, width, height int) *image.NRGBA {
	overlay := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			var alpha uint8
			switch {
			case mask[i]:
				alpha = primaryAlpha
			case x > 0 && mask[i-1],
				x < width-1 && mask[i+1],
				y > 0 && mask[i-width],
				y < height-1 && mask[i+width]:
				alpha = haloAlpha
			default:
				continue
			}
			overlay.Pix[i*4] = highlightColor.R
			overlay.Pix[i*4+1] = highlightColor.G
			overlay.Pix[i*4+2] = highlightColor.B
			overlay.Pix[i*4+3] = alpha
		}
	}
	return overlay
}
