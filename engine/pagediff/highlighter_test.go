package pagediff

import (
	"image"
	"image/color"
	"testing"
)

func uniformImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(x, y)
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func TestIdenticalPagesProduceEmptyMask(t *testing.T) {
	base := uniformImage(20, 20, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
	mask := diffMask(grayscale(base), grayscale(base), DiffThreshold)
	for i, marked := range mask {
		if marked {
			t.Fatalf("pixel %d marked for identical inputs", i)
		}
	}
}

func TestIdenticalWhitePagesStayWhite(t *testing.T) {
	base := uniformImage(16, 16, white)
	result, err := Highlight(base, uniformImage(16, 16, white))
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}
	for i := 0; i < len(result.Pix); i += 4 {
		if result.Pix[i] != 255 || result.Pix[i+1] != 255 || result.Pix[i+2] != 255 {
			t.Fatalf("pixel %d is not white: %v", i/4, result.Pix[i:i+4])
		}
		if result.Pix[i+3] != 255 {
			t.Fatalf("pixel %d is not opaque", i/4)
		}
	}
}

func TestSinglePixelDifferenceMarksPixelAndHalo(t *testing.T) {
	base := uniformImage(9, 9, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	candidate := uniformImage(9, 9, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	setPixel(candidate, 4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	mask := diffMask(grayscale(base), grayscale(candidate), DiffThreshold)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			want := x == 4 && y == 4
			if mask[y*9+x] != want {
				t.Errorf("mask[%d,%d] = %v, want %v", x, y, mask[y*9+x], want)
			}
		}
	}

	overlay := buildOverlay(mask, 9, 9)
	checkAlpha := func(x, y int, want uint8) {
		t.Helper()
		if got := overlay.Pix[(y*9+x)*4+3]; got != want {
			t.Errorf("overlay alpha at (%d,%d) = %d, want %d", x, y, got, want)
		}
	}
	checkAlpha(4, 4, primaryAlpha)
	checkAlpha(3, 4, haloAlpha)
	checkAlpha(5, 4, haloAlpha)
	checkAlpha(4, 3, haloAlpha)
	checkAlpha(4, 5, haloAlpha)
	// diagonal neighbors and everything further out stay clear
	checkAlpha(3, 3, 0)
	checkAlpha(5, 5, 0)
	checkAlpha(0, 0, 0)
	checkAlpha(6, 4, 0)
}

func TestThresholdBoundaryIsStrict(t *testing.T) {
	atThreshold := diffMask([]uint8{100}, []uint8{130}, DiffThreshold)
	if atThreshold[0] {
		t.Error("difference of exactly 30 must not be marked")
	}
	aboveThreshold := diffMask([]uint8{100}, []uint8{131}, DiffThreshold)
	if !aboveThreshold[0] {
		t.Error("difference of 31 must be marked")
	}
	// symmetric in argument order
	reversed := diffMask([]uint8{131}, []uint8{100}, DiffThreshold)
	if !reversed[0] {
		t.Error("difference of -31 must be marked")
	}
}

func TestPrimaryMarksWinOverHalo(t *testing.T) {
	// two horizontally adjacent primaries: each is the other's neighbor but
	// must keep the primary opacity
	mask := make([]bool, 5*5)
	mask[2*5+1] = true
	mask[2*5+2] = true

	overlay := buildOverlay(mask, 5, 5)
	if got := overlay.Pix[(2*5+1)*4+3]; got != primaryAlpha {
		t.Errorf("primary pixel weakened to alpha %d", got)
	}
	if got := overlay.Pix[(2*5+2)*4+3]; got != primaryAlpha {
		t.Errorf("primary pixel weakened to alpha %d", got)
	}
}

func TestHaloMarksDoNotAccumulate(t *testing.T) {
	// (1,2) and (3,2) are both primaries; (2,2) neighbors both but gets the
	// halo opacity exactly once
	mask := make([]bool, 5*5)
	mask[2*5+1] = true
	mask[2*5+3] = true

	overlay := buildOverlay(mask, 5, 5)
	if got := overlay.Pix[(2*5+2)*4+3]; got != haloAlpha {
		t.Errorf("shared halo pixel has alpha %d, want %d", got, haloAlpha)
	}
}

func TestHaloIsBoundsChecked(t *testing.T) {
	mask := make([]bool, 3*3)
	mask[0] = true // corner primary

	overlay := buildOverlay(mask, 3, 3)
	if got := overlay.Pix[3]; got != primaryAlpha {
		t.Errorf("corner primary alpha = %d", got)
	}
	if got := overlay.Pix[(0*3+1)*4+3]; got != haloAlpha {
		t.Errorf("right neighbor alpha = %d", got)
	}
	if got := overlay.Pix[(1*3+0)*4+3]; got != haloAlpha {
		t.Errorf("bottom neighbor alpha = %d", got)
	}
	if got := overlay.Pix[(1*3+1)*4+3]; got != 0 {
		t.Errorf("diagonal neighbor alpha = %d", got)
	}
}

func TestHighlightRejectsMismatchedSizes(t *testing.T) {
	base := uniformImage(10, 10, white)
	candidate := uniformImage(10, 12, white)
	if _, err := Highlight(base, candidate); err == nil {
		t.Fatal("expected error for mismatched raster sizes")
	}
}

// The end-to-end scenario: a white base page against a candidate with a black
// square produces an orange-highlighted region over an otherwise white image.
func TestHighlightMarksChangedRegion(t *testing.T) {
	base := uniformImage(100, 100, white)
	candidate := uniformImage(100, 100, white)
	for y := 40; y < 50; y++ {
		for x := 40; x < 50; x++ {
			setPixel(candidate, x, y, black)
		}
	}

	result, err := Highlight(base, candidate)
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}

	isWhite := func(x, y int) bool {
		i := result.PixOffset(x, y)
		return result.Pix[i] == 255 && result.Pix[i+1] == 255 && result.Pix[i+2] == 255
	}
	isOrangeTinted := func(x, y int) bool {
		i := result.PixOffset(x, y)
		r, g, b := result.Pix[i], result.Pix[i+1], result.Pix[i+2]
		return r > g && g > b
	}

	// inside the changed region: strongly tinted
	if !isOrangeTinted(45, 45) {
		t.Error("center of changed region not highlighted")
	}
	// the halo ring one pixel outside the region is tinted too
	if !isOrangeTinted(39, 45) {
		t.Error("halo pixel left of region not tinted")
	}
	if !isOrangeTinted(45, 50) {
		t.Error("halo pixel below region not tinted")
	}
	// two pixels out: untouched white
	if !isWhite(38, 45) {
		t.Error("pixel outside halo was modified")
	}
	if !isWhite(10, 10) {
		t.Error("far-away pixel was modified")
	}

	// the halo is weaker than the primary highlight
	primary := result.PixOffset(45, 45)
	halo := result.PixOffset(39, 45)
	if result.Pix[halo+2] <= result.Pix[primary+2] {
		t.Error("halo should be fainter than the primary highlight")
	}
}
