package pagediff

import (
	"image"

	"github.com/disintegration/imaging"
)

// Normalize brings two page rasters of possibly unequal size into a common
// coordinate space. The target size is the per-axis minimum of the two inputs,
// so both resized rasters fully cover the compared region without padding or
// cropping. Inputs already at the target size keep their dimensions.
func Normalize(base, candidate image.Image) (*image.NRGBA, *image.NRGBA, error) {
	baseWidth, baseHeight := base.Bounds().Dx(), base.Bounds().Dy()
	candidateWidth, candidateHeight := candidate.Bounds().Dx(), candidate.Bounds().Dy()

	if baseWidth <= 0 || baseHeight <= 0 {
		return nil, nil, &InvalidInputError{Width: baseWidth, Height: baseHeight}
	}
	if candidateWidth <= 0 || candidateHeight <= 0 {
		return nil, nil, &InvalidInputError{Width: candidateWidth, Height: candidateHeight}
	}

	targetWidth := min(baseWidth, candidateWidth)
	targetHeight := min(baseHeight, candidateHeight)

	return resizeTo(base, targetWidth, targetHeight), resizeTo(candidate, targetWidth, targetHeight), nil
}

func resizeTo(img image.Image, width, height int) *image.NRGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
