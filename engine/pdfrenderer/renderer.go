package pdfrenderer

import (
	"fmt"
	"image"
)

// Renderer converts the pages of a PDF document into raster images at a fixed
// resolution.
type Renderer interface {
	// RenderPDF renders every page of the document, one image per page, in
	// page order.
	RenderPDF(filename string) ([]image.Image, error)

	// Close releases any resources held by the renderer.
	Close() error
}

// New creates a renderer for the given backend. "pdfium" (the default) uses
// go-pdfium over WebAssembly and needs no CGo; "fitz" uses go-fitz and
// requires CGo and MuPDF.
func New(backend string, dpi int) (Renderer, error) {
	switch backend {
	case "", "pdfium":
		return NewPDFiumRenderer(dpi)
	case "fitz":
		return NewFitzRenderer(dpi)
	default:
		return nil, fmt.Errorf("unknown PDF renderer backend %q", backend)
	}
}
