package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

// Screening job states.
const (
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// ScreeningJob is the persisted status of one asynchronous screening run.
type ScreeningJob struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Scanned    int        `json:"scanned"`
	Hits       int        `json:"hits"`
	Failed     int        `json:"failed"`
	ReportKey  string     `json:"report_key,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ScreeningJobRepository tracks worker jobs so clients can poll for results.
type ScreeningJobRepository struct {
	db     queryExecutor
	logger logging.Logger
}

func NewScreeningJobRepository(conn *postgres.Connection, log logging.Logger) *ScreeningJobRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ScreeningJobRepository{db: conn.DB(), logger: log}
}

// Start records a job as running.  Restarting a job that already exists
// resets it; Kafka may redeliver after a worker crash.
func (r *ScreeningJobRepository) Start(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO screening_jobs (id, status) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, error = '', finished_at = NULL`,
		id, JobRunning)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to start screening job").WithDetail(id)
	}
	return nil
}

// Finish stores the outcome.  A non-empty Error marks the job failed.
func (r *ScreeningJobRepository) Finish(ctx context.Context, job ScreeningJob) error {
	status := JobSucceeded
	if job.Error != "" {
		status = JobFailed
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE screening_jobs
		SET status = $2, scanned = $3, hits = $4, failed = $5, report_key = $6, error = $7, finished_at = NOW()
		WHERE id = $1`,
		job.ID, status, job.Scanned, job.Hits, job.Failed, job.ReportKey, job.Error)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to finish screening job").WithDetail(job.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNotFound, "screening job not found").WithDetail(job.ID)
	}
	r.logger.Debug("screening job finished", logging.JobID(job.ID), logging.String("status", status))
	return nil
}

func (r *ScreeningJobRepository) Get(ctx context.Context, id string) (*ScreeningJob, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, status, scanned, hits, failed, report_key, error, created_at, finished_at
		FROM screening_jobs WHERE id = $1`, id)

	var (
		job      ScreeningJob
		finished sql.NullTime
	)
	err := row.Scan(&job.ID, &job.Status, &job.Scanned, &job.Hits, &job.Failed, &job.ReportKey, &job.Error, &job.CreatedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeNotFound, "screening job not found").WithDetail(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load screening job")
	}
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	return &job, nil
}

//Personal.AI order the ending
