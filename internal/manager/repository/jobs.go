package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/db"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrJobNotFound = errors.New("job not found")

const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// JobRepository persists processing requests so hosts can enqueue work and
// inspect outcomes. Scheduling stays with the caller; rows only record state.
type JobRepository struct {
	db     *db.DB
	logger zerolog.Logger
}

func NewJobRepository(database *db.DB) *JobRepository {
	logger := util.NewLogger(zerolog.ErrorLevel)
	return &JobRepository{
		db:     database,
		logger: logger,
	}
}

// Enqueue records a new processing request and returns it with a fresh ID.
func (r *JobRepository) Enqueue(ctx context.Context, source, collection string, kind models.ContentKind, payload *string) (*models.Job, error) {
	job := &models.Job{
		ID:         uuid.New().String(),
		Source:     source,
		Collection: collection,
		Kind:       kind.String(),
		Payload:    payload,
		Status:     JobStatusQueued,
		EnqueuedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO jobs (id, source, collection, content_kind, payload, status, enqueued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, job.ID, job.Source, job.Collection,
		job.Kind, job.Payload, job.Status, job.EnqueuedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error().Err(err).Str("source", source).Msg("failed to enqueue job")
		return nil, err
	}
	return job, nil
}

// List returns the most recently enqueued jobs, newest first.
func (r *JobRepository) List(ctx context.Context, limit int) ([]models.Job, error) {
	query := `
		SELECT id, source, collection, content_kind, payload, status, error,
		       enqueued_at, started_at, finished_at
		FROM jobs ORDER BY enqueued_at DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan job row")
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetByID returns one job or ErrJobNotFound.
func (r *JobRepository) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	query := `
		SELECT id, source, collection, content_kind, payload, status, error,
		       enqueued_at, started_at, finished_at
		FROM jobs WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, jobID)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Error().Str("job_id", jobID).Msg("job not found")
		return nil, ErrJobNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to get job")
		return nil, err
	}
	return job, nil
}

// MarkStarted transitions a job to running and stamps the start time.
func (r *JobRepository) MarkStarted(ctx context.Context, jobID string) error {
	query := `UPDATE jobs SET status = ?, started_at = ? WHERE id = ?`
	return r.update(ctx, jobID, query, JobStatusRunning, time.Now().UTC().Format(time.RFC3339), jobID)
}

// MarkFinished transitions a job to done, or failed when errMsg is non-nil.
func (r *JobRepository) MarkFinished(ctx context.Context, jobID string, errMsg *string) error {
	status := JobStatusDone
	if errMsg != nil {
		status = JobStatusFailed
	}
	query := `UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE id = ?`
	return r.update(ctx, jobID, query, status, errMsg, time.Now().UTC().Format(time.RFC3339), jobID)
}

func (r *JobRepository) update(ctx context.Context, jobID, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to update job")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var enqueuedAt string
	var startedAt, finishedAt sql.NullString

	err := row.Scan(&job.ID, &job.Source, &job.Collection, &job.Kind, &job.Payload,
		&job.Status, &job.Error, &enqueuedAt, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	job.EnqueuedAt, err = time.Parse(time.RFC3339, enqueuedAt)
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t, err := time.Parse(time.RFC3339, startedAt.String)
		if err != nil {
			return nil, err
		}
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, err
		}
		job.FinishedAt = &t
	}
	return &job, nil
}
