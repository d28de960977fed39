package engine

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/pdfdelta/pdfdelta/config"
	"github.com/pdfdelta/pdfdelta/database"
	"github.com/pdfdelta/pdfdelta/engine/pagediff"
	"github.com/pdfdelta/pdfdelta/engine/pdfrenderer"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	DB           database.Repository
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Renderer     pdfrenderer.Renderer
}

// runComparisonJob renders both uploaded documents and highlights their
// differences page by page. It runs in its own goroutine; all outcomes are
// reported through the job row. The uploaded PDFs are removed afterwards.
func (serverHandler *ServerHandler) runComparisonJob(jobID ulid.ULID, compULID string, basePath, candidatePath string) {
	// One bad document must not take the server down
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in comparison job", "panic", r, "jobID", jobID)
			serverHandler.DB.UpdateJobError(jobID, fmt.Sprintf("Panic: %v", r))
			serverHandler.DB.UpdateComparisonStatus(compULID, database.ComparisonFailed)
		}
	}()
	defer os.Remove(basePath)
	defer os.Remove(candidatePath)

	db := serverHandler.DB
	if err := db.UpdateJobStatus(jobID, database.JobStatusRunning, "Validating documents"); err != nil {
		Logger.Error("Failed to update job status", "error", err)
	}
	db.UpdateComparisonStatus(compULID, database.ComparisonRunning)

	// Cheap structural check before the renderer spins up. A parse failure
	// here is only advisory, the renderer gives the authoritative error.
	for _, path := range []string{basePath, candidatePath} {
		if pages, err := preflightPDF(path); err != nil {
			Logger.Warn("Preflight parse failed, relying on renderer", "path", path, "error", err)
		} else {
			Logger.Debug("Preflight page count", "path", path, "pages", pages)
		}
	}

	db.UpdateJobProgress(jobID, 5, "Rendering base document")
	baseImages, err := serverHandler.Renderer.RenderPDF(basePath)
	if err != nil {
		serverHandler.failComparison(jobID, compULID, "Failed to render base document", err)
		return
	}

	db.UpdateJobProgress(jobID, 20, "Rendering candidate document")
	candidateImages, err := serverHandler.Renderer.RenderPDF(candidatePath)
	if err != nil {
		serverHandler.failComparison(jobID, compULID, "Failed to render candidate document", err)
		return
	}

	if err := serverHandler.highlightAndStore(jobID, compULID, baseImages, candidateImages); err != nil {
		serverHandler.failComparison(jobID, compULID, "Failed to highlight differences", err)
	}
}

// highlightAndStore compares the rendered page sets, writes the per-page
// results and the archive, and completes the job. Only min(base, candidate)
// pages are compared; trailing pages of the longer document are ignored.
func (serverHandler *ServerHandler) highlightAndStore(jobID ulid.ULID, compULID string, baseImages, candidateImages []image.Image) error {
	db := serverHandler.DB

	outDir := filepath.Join(serverHandler.ServerConfig.ResultPath, compULID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &pagediff.ResourceError{Op: "create result directory", Err: err}
	}

	results, err := pagediff.CompareAll(baseImages, candidateImages, func(page, total int) {
		progress := 35 + page*55/total
		db.UpdateJobProgress(jobID, progress, fmt.Sprintf("Compared page %d/%d", page, total))
	})
	if err != nil {
		return err
	}

	for i, result := range results {
		if err := writePageImage(outDir, i+1, result); err != nil {
			return err
		}
	}

	db.UpdateJobProgress(jobID, 95, "Packaging results")
	archivePath := filepath.Join(outDir, "diff_pages.zip")
	if err := writeArchive(outDir, len(results), archivePath); err != nil {
		return err
	}

	if err := db.UpdateComparisonResult(compULID, len(baseImages), len(candidateImages), len(results), archivePath); err != nil {
		Logger.Error("Failed to record comparison result", "error", err)
		return err
	}
	if err := db.UpdateComparisonStatus(compULID, database.ComparisonCompleted); err != nil {
		Logger.Error("Failed to mark comparison complete", "error", err)
		return err
	}

	summary, _ := json.Marshal(database.ComparisonSummary{
		BasePages:      len(baseImages),
		CandidatePages: len(candidateImages),
		PagesCompared:  len(results),
	})
	if err := db.CompleteJob(jobID, string(summary)); err != nil {
		Logger.Error("Failed to mark job as complete", "error", err)
	}

	Logger.Info("Comparison completed", "comparison", compULID,
		"basePages", len(baseImages), "candidatePages", len(candidateImages), "pagesCompared", len(results))
	return nil
}

// failComparison records a pipeline failure on both the job and the
// comparison row
func (serverHandler *ServerHandler) failComparison(jobID ulid.ULID, compULID string, message string, err error) {
	Logger.Error(message, "comparison", compULID, "error", err)
	serverHandler.DB.UpdateJobError(jobID, fmt.Sprintf("%s: %v", message, err))
	serverHandler.DB.UpdateComparisonStatus(compULID, database.ComparisonFailed)
}

// pageFileName names the highlighted result for a 1-based page number
func pageFileName(page int) string {
	return fmt.Sprintf("page_%04d.png", page)
}

func writePageImage(outDir string, page int, img image.Image) error {
	outFile, err := os.Create(filepath.Join(outDir, pageFileName(page)))
	if err != nil {
		return &pagediff.ResourceError{Op: fmt.Sprintf("create result image for page %d", page), Err: err}
	}
	defer outFile.Close()

	if err := png.Encode(outFile, img); err != nil {
		return &pagediff.ResourceError{Op: fmt.Sprintf("encode result image for page %d", page), Err: err}
	}
	return nil
}
