package database

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// BunComparison represents the comparisons table for Bun ORM
type BunComparison struct {
	bun.BaseModel `bun:"table:comparisons,alias:c"`

	ID             int       `bun:"id,pk,autoincrement"`
	ULID           string    `bun:"ulid,notnull,unique"` // Stored as string in DB
	BaseName       string    `bun:"base_name,notnull"`
	CandidateName  string    `bun:"candidate_name,notnull"`
	BasePages      int       `bun:"base_pages,default:0"`
	CandidatePages int       `bun:"candidate_pages,default:0"`
	PagesCompared  int       `bun:"pages_compared,default:0"`
	Status         string    `bun:"status,notnull,default:'pending'"`
	OutputDir      string    `bun:"output_dir,nullzero"`
	ArchivePath    string    `bun:"archive_path,nullzero"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToComparison converts BunComparison to Comparison
func (bc *BunComparison) ToComparison() (*Comparison, error) {
	parsedULID, err := ulid.Parse(bc.ULID)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		ID:             bc.ID,
		ULID:           parsedULID,
		BaseName:       bc.BaseName,
		CandidateName:  bc.CandidateName,
		BasePages:      bc.BasePages,
		CandidatePages: bc.CandidatePages,
		PagesCompared:  bc.PagesCompared,
		Status:         ComparisonStatus(bc.Status),
		OutputDir:      bc.OutputDir,
		ArchivePath:    bc.ArchivePath,
		CreatedAt:      bc.CreatedAt,
		UpdatedAt:      bc.UpdatedAt,
	}, nil
}

// FromComparison converts Comparison to BunComparison
func FromComparison(comp *Comparison) *BunComparison {
	return &BunComparison{
		ID:             comp.ID,
		ULID:           comp.ULID.String(),
		BaseName:       comp.BaseName,
		CandidateName:  comp.CandidateName,
		BasePages:      comp.BasePages,
		CandidatePages: comp.CandidatePages,
		PagesCompared:  comp.PagesCompared,
		Status:         string(comp.Status),
		OutputDir:      comp.OutputDir,
		ArchivePath:    comp.ArchivePath,
		CreatedAt:      comp.CreatedAt,
		UpdatedAt:      comp.UpdatedAt,
	}
}

// BunJob represents the jobs table for Bun ORM
type BunJob struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID          string     `bun:"id,pk"` // ULID as string
	Type        string     `bun:"type,notnull"`
	Status      string     `bun:"status,default:'pending'"`
	Progress    int        `bun:"progress,default:0"`
	CurrentStep string     `bun:"current_step,default:''"`
	TotalSteps  int        `bun:"total_steps,default:0"`
	Message     string     `bun:"message,default:''"`
	Error       string     `bun:"error,nullzero"`
	Result      string     `bun:"result,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	StartedAt   *time.Time `bun:"started_at,nullzero"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`
}

// ToJob converts BunJob to Job
func (bj *BunJob) ToJob() (*Job, error) {
	parsedULID, err := ulid.Parse(bj.ID)
	if err != nil {
		return nil, err
	}

	return &Job{
		ID:          parsedULID,
		Type:        JobType(bj.Type),
		Status:      JobStatus(bj.Status),
		Progress:    bj.Progress,
		CurrentStep: bj.CurrentStep,
		TotalSteps:  bj.TotalSteps,
		Message:     bj.Message,
		Error:       bj.Error,
		Result:      bj.Result,
		CreatedAt:   bj.CreatedAt,
		UpdatedAt:   bj.UpdatedAt,
		StartedAt:   bj.StartedAt,
		CompletedAt: bj.CompletedAt,
	}, nil
}

// FromJob converts Job to BunJob
func FromJob(job *Job) *BunJob {
	return &BunJob{
		ID:          job.ID.String(),
		Type:        string(job.Type),
		Status:      string(job.Status),
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		TotalSteps:  job.TotalSteps,
		Message:     job.Message,
		Error:       job.Error,
		Result:      job.Result,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}
