package pagediff

import (
	"fmt"
	"image"
)

// ComparePage normalizes a base/candidate page pair and renders the
// highlighted result.
func ComparePage(base, candidate image.Image) (*image.NRGBA, error) {
	normalizedBase, normalizedCandidate, err := Normalize(base, candidate)
	if err != nil {
		return nil, err
	}
	return Highlight(normalizedBase, normalizedCandidate)
}

// CompareAll compares the documents page by page. Only min(len(basePages),
// len(candidatePages)) pairs are compared; trailing pages of the longer
// document are ignored. progress, if non-nil, is called after each page with
// the 1-based page number and the total page count.
func CompareAll(basePages, candidatePages []image.Image, progress func(page, total int)) ([]*image.NRGBA, error) {
	total := min(len(basePages), len(candidatePages))
	results := make([]*image.NRGBA, 0, total)
	for i := 0; i < total; i++ {
		result, err := ComparePage(basePages[i], candidatePages[i])
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		results = append(results, result)
		if progress != nil {
			progress(i+1, total)
		}
	}
	return results, nil
}
