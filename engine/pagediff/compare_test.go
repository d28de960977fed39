package pagediff

import (
	"image"
	"testing"
)

func TestCompareAllUsesMinimumPageCount(t *testing.T) {
	basePages := make([]image.Image, 3)
	candidatePages := make([]image.Image, 5)
	for i := range basePages {
		basePages[i] = uniformImage(8, 8, white)
	}
	for i := range candidatePages {
		candidatePages[i] = uniformImage(8, 8, white)
	}

	var reported []int
	results, err := CompareAll(basePages, candidatePages, func(page, total int) {
		if total != 3 {
			t.Errorf("progress total = %d, want 3", total)
		}
		reported = append(reported, page)
	})
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if len(reported) != 3 || reported[0] != 1 || reported[2] != 3 {
		t.Errorf("progress callbacks = %v, want [1 2 3]", reported)
	}
}

func TestCompareAllWithNilProgress(t *testing.T) {
	pages := []image.Image{uniformImage(4, 4, white)}
	results, err := CompareAll(pages, pages, nil)
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestComparePageNormalizesBeforeComparing(t *testing.T) {
	base := uniformImage(8, 8, white)
	candidate := uniformImage(10, 10, white)

	result, err := ComparePage(base, candidate)
	if err != nil {
		t.Fatalf("ComparePage failed: %v", err)
	}
	if result.Bounds().Dx() != 8 || result.Bounds().Dy() != 8 {
		t.Errorf("result is %dx%d, want 8x8", result.Bounds().Dx(), result.Bounds().Dy())
	}
}

func TestCompareAllReportsFailingPage(t *testing.T) {
	basePages := []image.Image{
		uniformImage(8, 8, white),
		image.NewNRGBA(image.Rect(0, 0, 0, 8)),
	}
	candidatePages := []image.Image{
		uniformImage(8, 8, white),
		uniformImage(8, 8, white),
	}

	_, err := CompareAll(basePages, candidatePages, nil)
	if err == nil {
		t.Fatal("expected error for zero-area page")
	}
	if got := err.Error(); got[:7] != "page 2:" {
		t.Errorf("error %q does not name the failing page", got)
	}
}
