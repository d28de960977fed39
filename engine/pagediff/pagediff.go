// Package pagediff detects and highlights visual differences between two
// rendered document pages.
//
// A page pair is first normalized to a common size (the per-axis minimum of
// the two rasters, resampled with a Lanczos filter), then projected to
// grayscale and compared pixel by pixel. Pixels whose intensities differ by
// more than DiffThreshold are painted with a translucent orange highlight,
// with a softer halo on their 4-connected neighbors, and the result is
// flattened over a white background into an opaque image.
//
// The package holds no state between page pairs and never logs; failures are
// reported as typed errors for the caller to present.
package pagediff
