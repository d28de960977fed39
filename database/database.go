package database

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ComparisonStatus represents where a comparison is in its lifecycle
type ComparisonStatus string

const (
	ComparisonPending   ComparisonStatus = "pending"
	ComparisonRunning   ComparisonStatus = "running"
	ComparisonCompleted ComparisonStatus = "completed"
	ComparisonFailed    ComparisonStatus = "failed"
)

// Comparison is one base/candidate document pair and the location of its
// highlighted per-page results
type Comparison struct {
	ID             int
	ULID           ulid.ULID // used in URLs, shorter than a hash
	BaseName       string    // original filename of the base document
	CandidateName  string    // original filename of the candidate document
	BasePages      int
	CandidatePages int
	PagesCompared  int // min of the two page counts
	Status         ComparisonStatus
	OutputDir      string // directory holding the per-page PNGs
	ArchivePath    string // ZIP of all page results
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// Repository defines database operations
type Repository interface {
	Close() error
	// Comparison methods
	SaveComparison(comp *Comparison) error
	GetComparisonByULID(ulidStr string) (*Comparison, error)
	GetRecentComparisons(limit int) ([]Comparison, error)
	GetComparisonsOlderThan(cutoff time.Time) ([]Comparison, error)
	UpdateComparisonStatus(ulidStr string, status ComparisonStatus) error
	UpdateComparisonResult(ulidStr string, basePages, candidatePages, pagesCompared int, archivePath string) error
	DeleteComparison(ulidStr string) error
	// Job tracking methods
	CreateJob(jobType JobType, message string) (*Job, error)
	UpdateJobProgress(jobID ulid.ULID, progress int, currentStep string) error
	UpdateJobStatus(jobID ulid.ULID, status JobStatus, message string) error
	UpdateJobError(jobID ulid.ULID, errorMsg string) error
	CompleteJob(jobID ulid.ULID, result string) error
	GetJob(jobID ulid.ULID) (*Job, error)
	GetRecentJobs(limit, offset int) ([]Job, error)
	GetActiveJobs() ([]Job, error)
	DeleteOldJobs(olderThan time.Duration) (int, error)
}

// CalculateUUID creates a ULID for a comparison or job at the given time
func CalculateUUID(time time.Time) (ulid.ULID, error) {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.UnixNano())), 0)
	newULID, err := ulid.New(ulid.Timestamp(time), entropy)
	if err != nil {
		return newULID, err
	}
	return newULID, nil
}
