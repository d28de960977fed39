package pagediff

import (
	"errors"
	"image"
	"testing"
)

func TestNormalizeShrinksToMinimumDimensions(t *testing.T) {
	base := uniformImage(200, 300, white)
	candidate := uniformImage(210, 290, white)

	normalizedBase, normalizedCandidate, err := Normalize(base, candidate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	for name, img := range map[string]*image.NRGBA{"base": normalizedBase, "candidate": normalizedCandidate} {
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 290 {
			t.Errorf("%s normalized to %dx%d, want 200x290", name, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}
}

func TestNormalizeKeepsEqualDimensions(t *testing.T) {
	base := uniformImage(120, 80, white)
	candidate := uniformImage(120, 80, black)

	normalizedBase, normalizedCandidate, err := Normalize(base, candidate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if normalizedBase.Bounds().Dx() != 120 || normalizedBase.Bounds().Dy() != 80 {
		t.Errorf("base dimensions changed to %v", normalizedBase.Bounds())
	}
	if normalizedCandidate.Bounds().Dx() != 120 || normalizedCandidate.Bounds().Dy() != 80 {
		t.Errorf("candidate dimensions changed to %v", normalizedCandidate.Bounds())
	}
}

func TestNormalizeRejectsZeroAreaRasters(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	full := uniformImage(10, 10, white)

	for _, pair := range [][2]image.Image{{empty, full}, {full, empty}} {
		_, _, err := Normalize(pair[0], pair[1])
		var invalidInput *InvalidInputError
		if !errors.As(err, &invalidInput) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
		if invalidInput.Width != 0 {
			t.Errorf("error reports width %d, want 0", invalidInput.Width)
		}
	}
}
