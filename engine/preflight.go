package engine

import (
	"errors"

	"github.com/ledongthuc/pdf"
)

// preflightPDF opens the document without rasterizing it and returns its page
// count, catching obviously corrupt uploads before rendering starts.
func preflightPDF(path string) (int, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return 0, errors.New("document has no pages")
	}
	return numPages, nil
}
