package engine

import (
	"archive/zip"
	"os"
	"path/filepath"

	"github.com/pdfdelta/pdfdelta/engine/pagediff"
)

// writeArchive bundles the per-page result images of a comparison into a
// single ZIP for download
func writeArchive(outDir string, pages int, zipPath string) error {
	archiveFile, err := os.Create(zipPath)
	if err != nil {
		return &pagediff.ResourceError{Op: "create result archive", Err: err}
	}
	defer archiveFile.Close()

	zipWriter := zip.NewWriter(archiveFile)
	for page := 1; page <= pages; page++ {
		name := pageFileName(page)
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return &pagediff.ResourceError{Op: "read result image for archive", Err: err}
		}
		entry, err := zipWriter.Create(name)
		if err != nil {
			return &pagediff.ResourceError{Op: "add archive entry", Err: err}
		}
		if _, err := entry.Write(data); err != nil {
			return &pagediff.ResourceError{Op: "write archive entry", Err: err}
		}
	}

	if err := zipWriter.Close(); err != nil {
		return &pagediff.ResourceError{Op: "finalize result archive", Err: err}
	}
	return nil
}
