package engine

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/pdfdelta/pdfdelta/database"
)

// comparisonResponse is the API shape of a comparison with ready-to-use links
type comparisonResponse struct {
	ID             string   `json:"id"`
	BaseName       string   `json:"baseName"`
	CandidateName  string   `json:"candidateName"`
	Status         string   `json:"status"`
	BasePages      int      `json:"basePages"`
	CandidatePages int      `json:"candidatePages"`
	PagesCompared  int      `json:"pagesCompared"`
	Pages          []string `json:"pages"`
	ArchiveURL     string   `json:"archiveURL,omitempty"`
	CreatedAt      string   `json:"createdAt"`
}

func toComparisonResponse(comp *database.Comparison) comparisonResponse {
	response := comparisonResponse{
		ID:             comp.ULID.String(),
		BaseName:       comp.BaseName,
		CandidateName:  comp.CandidateName,
		Status:         string(comp.Status),
		BasePages:      comp.BasePages,
		CandidatePages: comp.CandidatePages,
		PagesCompared:  comp.PagesCompared,
		Pages:          []string{},
		CreatedAt:      comp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for page := 1; page <= comp.PagesCompared; page++ {
		response.Pages = append(response.Pages, fmt.Sprintf("/api/comparisons/%s/pages/%d", comp.ULID, page))
	}
	if comp.ArchivePath != "" {
		response.ArchiveURL = fmt.Sprintf("/api/comparisons/%s/archive", comp.ULID)
	}
	return response
}

// CompareDocuments accepts two uploaded PDFs and starts a comparison job
// @Summary Compare two PDF documents
// @Description Upload a base and a candidate PDF; their visual differences are highlighted page by page in a background job
// @Tags Comparisons
// @Accept multipart/form-data
// @Produce json
// @Param base formData file true "Base PDF document"
// @Param candidate formData file true "Candidate PDF document"
// @Success 202 {object} map[string]string "Comparison and job IDs"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /compare [post]
func (serverHandler *ServerHandler) CompareDocuments(context echo.Context) error {
	request := context.Request()

	baseFile, baseHeader, err := request.FormFile("base")
	if err != nil {
		return context.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing base document",
		})
	}
	defer baseFile.Close()

	candidateFile, candidateHeader, err := request.FormFile("candidate")
	if err != nil {
		return context.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing candidate document",
		})
	}
	defer candidateFile.Close()

	for _, name := range []string{baseHeader.Filename, candidateHeader.Filename} {
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return context.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": fmt.Sprintf("Unsupported file type: %s", filepath.Ext(name)),
			})
		}
	}

	compID := ulid.Make()
	basePath := filepath.Join(serverHandler.ServerConfig.UploadPath, compID.String()+"_base.pdf")
	candidatePath := filepath.Join(serverHandler.ServerConfig.UploadPath, compID.String()+"_candidate.pdf")

	if err := saveUpload(baseFile, basePath); err != nil {
		Logger.Error("Unable to write uploaded base document", "path", basePath, "error", err)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Unable to store upload",
		})
	}
	if err := saveUpload(candidateFile, candidatePath); err != nil {
		Logger.Error("Unable to write uploaded candidate document", "path", candidatePath, "error", err)
		os.Remove(basePath)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Unable to store upload",
		})
	}

	comp := &database.Comparison{
		ULID:          compID,
		BaseName:      filepath.Base(baseHeader.Filename),
		CandidateName: filepath.Base(candidateHeader.Filename),
		Status:        database.ComparisonPending,
		OutputDir:     filepath.Join(serverHandler.ServerConfig.ResultPath, compID.String()),
	}
	if err := serverHandler.DB.SaveComparison(comp); err != nil {
		Logger.Error("Unable to save comparison", "error", err)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Unable to create comparison",
		})
	}

	job, err := serverHandler.DB.CreateJob(database.JobTypeComparison,
		fmt.Sprintf("Comparing %s against %s", comp.BaseName, comp.CandidateName))
	if err != nil {
		Logger.Error("Unable to create comparison job", "error", err)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Unable to create job",
		})
	}

	go serverHandler.runComparisonJob(job.ID, compID.String(), basePath, candidatePath)

	return context.JSON(http.StatusAccepted, map[string]string{
		"comparisonId": compID.String(),
		"jobId":        job.ID.String(),
	})
}

// GetComparison returns the metadata of one comparison
// @Summary Get comparison by ID
// @Description Retrieve a comparison with links to its per-page results
// @Tags Comparisons
// @Produce json
// @Param id path string true "Comparison ID (ULID)"
// @Success 200 {object} comparisonResponse "Comparison details"
// @Failure 404 {object} map[string]interface{} "Comparison not found"
// @Router /comparisons/{id} [get]
func (serverHandler *ServerHandler) GetComparison(context echo.Context) error {
	comp, err := serverHandler.DB.GetComparisonByULID(context.Param("id"))
	if err != nil {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Comparison not found",
		})
	}
	return context.JSON(http.StatusOK, toComparisonResponse(comp))
}

// ListComparisons returns the most recent comparisons
// @Summary List recent comparisons
// @Tags Comparisons
// @Produce json
// @Param limit query int false "Number of comparisons to return (default: 20)"
// @Success 200 {array} comparisonResponse "List of comparisons"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /comparisons [get]
func (serverHandler *ServerHandler) ListComparisons(context echo.Context) error {
	limit := 20
	if limitStr := context.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	comps, err := serverHandler.DB.GetRecentComparisons(limit)
	if err != nil {
		Logger.Error("Failed to list comparisons", "error", err)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to retrieve comparisons",
		})
	}

	responses := make([]comparisonResponse, 0, len(comps))
	for i := range comps {
		responses = append(responses, toComparisonResponse(&comps[i]))
	}
	return context.JSON(http.StatusOK, responses)
}

// GetComparisonPage serves one highlighted page image
// @Summary Get a highlighted page
// @Description Serve the highlighted result image for one compared page
// @Tags Comparisons
// @Produce png
// @Param id path string true "Comparison ID (ULID)"
// @Param page path int true "1-based page number"
// @Success 200 {file} file "Highlighted page PNG"
// @Failure 404 {object} map[string]interface{} "Page not found"
// @Router /comparisons/{id}/pages/{page} [get]
func (serverHandler *ServerHandler) GetComparisonPage(context echo.Context) error {
	comp, err := serverHandler.DB.GetComparisonByULID(context.Param("id"))
	if err != nil {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Comparison not found",
		})
	}

	page, err := strconv.Atoi(context.Param("page"))
	if err != nil || page < 1 || page > comp.PagesCompared {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": fmt.Sprintf("Page out of range, comparison has %d pages", comp.PagesCompared),
		})
	}

	return context.File(filepath.Join(comp.OutputDir, pageFileName(page)))
}

// DownloadArchive serves the ZIP of all highlighted pages
// @Summary Download comparison archive
// @Description Download every highlighted page of a comparison as a ZIP
// @Tags Comparisons
// @Produce octet-stream
// @Param id path string true "Comparison ID (ULID)"
// @Success 200 {file} file "ZIP archive"
// @Failure 404 {object} map[string]interface{} "Archive not found"
// @Router /comparisons/{id}/archive [get]
func (serverHandler *ServerHandler) DownloadArchive(context echo.Context) error {
	comp, err := serverHandler.DB.GetComparisonByULID(context.Param("id"))
	if err != nil {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Comparison not found",
		})
	}
	if comp.ArchivePath == "" {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Comparison has no archive yet",
		})
	}

	downloadName := fmt.Sprintf("diff_result_%s_%s.zip",
		strings.TrimSuffix(comp.BaseName, filepath.Ext(comp.BaseName)),
		strings.TrimSuffix(comp.CandidateName, filepath.Ext(comp.CandidateName)))
	return context.Attachment(comp.ArchivePath, downloadName)
}

// DeleteComparison removes a comparison and its stored results
// @Summary Delete a comparison
// @Description Deletes the comparison row and every stored result image
// @Tags Comparisons
// @Produce json
// @Param id path string true "Comparison ID (ULID)"
// @Success 200 {string} string "Comparison Deleted"
// @Failure 404 {object} map[string]interface{} "Comparison not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /comparisons/{id} [delete]
func (serverHandler *ServerHandler) DeleteComparison(context echo.Context) error {
	comp, err := serverHandler.DB.GetComparisonByULID(context.Param("id"))
	if err != nil {
		return context.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Comparison not found",
		})
	}

	if err := serverHandler.DB.DeleteComparison(comp.ULID.String()); err != nil {
		Logger.Error("Unable to delete comparison from database", "comparison", comp.ULID, "error", err)
		return context.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Unable to delete comparison",
		})
	}
	if comp.OutputDir != "" {
		if err := os.RemoveAll(comp.OutputDir); err != nil {
			Logger.Error("Unable to delete comparison results from file system", "path", comp.OutputDir, "error", err)
		}
	}
	return context.JSON(http.StatusOK, "Comparison Deleted")
}

func saveUpload(file io.Reader, path string) error {
	body, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0644)
}
