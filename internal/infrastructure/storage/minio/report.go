package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// ScreeningReport is the archived record of one screening run.
type ScreeningReport struct {
	JobID     string                  `json:"job_id"`
	CreatedAt time.Time               `json:"created_at"`
	Query     mtypes.MoleculeGraphDTO `json:"query"`
	Options   mtypes.MatchOptionsDTO  `json:"options"`
	Result    mtypes.ScreenResponse   `json:"result"`
}

// ReportArchive stores screening reports.
type ReportArchive interface {
	Put(ctx context.Context, report *ScreeningReport) (string, error)
	Get(ctx context.Context, key string) (*ScreeningReport, error)
	Delete(ctx context.Context, key string) error
}

type reportArchive struct {
	client  *Client
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

func NewReportArchive(client *Client, log logging.Logger, metrics *prometheus.AppMetrics) ReportArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNoopMetrics()
	}
	return &reportArchive{client: client, logger: log, metrics: metrics}
}

// ReportKey places reports under a date partition so lifecycle rules and
// listing stay cheap.
func ReportKey(jobID string, createdAt time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", ReportPrefix, createdAt.UTC().Format("2006/01/02"), jobID)
}

func (a *reportArchive) Put(ctx context.Context, report *ScreeningReport) (key string, err error) {
	defer func() { prometheus.RecordArchiveUpload(a.metrics, err) }()

	if report == nil || report.JobID == "" {
		return "", errors.New(errors.ErrCodeValidation, "report requires a job id")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode report")
	}

	key = ReportKey(report.JobID, report.CreatedAt)
	_, err = a.client.api.PutObject(ctx, a.client.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"job-id": report.JobID,
			"hits":   fmt.Sprintf("%d", len(report.Result.Hits)),
		},
	})
	if err != nil {
		a.logger.Error("Failed to upload screening report", logging.JobID(report.JobID), logging.Err(err))
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload report").WithDetail(key)
	}

	a.logger.Info("Screening report archived",
		logging.JobID(report.JobID),
		logging.String("key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}

func (a *reportArchive) Get(ctx context.Context, key string) (*ScreeningReport, error) {
	obj, err := a.client.api.GetObject(ctx, a.client.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, a.readError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, a.readError(err, key)
	}
	var report ScreeningReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "stored report is corrupt").WithDetail(key)
	}
	return &report, nil
}

func (a *reportArchive) readError(err error, key string) error {
	if isNotFound(err) {
		return errors.New(errors.ErrCodeNotFound, "report not found").WithDetail(key)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "failed to read report").WithDetail(key)
}

func (a *reportArchive) Delete(ctx context.Context, key string) error {
	if err := a.client.api.RemoveObject(ctx, a.client.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to delete report").WithDetail(key)
	}
	return nil
}

//Personal.AI order the ending
