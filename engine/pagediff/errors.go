package pagediff

import "fmt"

// InvalidInputError reports a page raster that cannot be compared because one
// of its dimensions is zero.
type InvalidInputError struct {
	Width  int
	Height int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid page raster: %dx%d pixels", e.Width, e.Height)
}

// ResourceError reports a failure to allocate, encode or store image data.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
