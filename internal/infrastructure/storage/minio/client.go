// Package minio archives screening reports in S3-compatible object storage.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

// ReportPrefix is the key prefix for screening reports.
const ReportPrefix = "screening/"

// defaultReportRetentionDays bounds how long reports are kept.
const defaultReportRetentionDays = 90

// ObjectAPI is the subset of the MinIO SDK the archive uses.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// sdkClient narrows *minio.Object to io.ReadCloser so ObjectAPI can be faked.
type sdkClient struct {
	*minio.Client
}

func (s sdkClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

// Client owns the report bucket.
type Client struct {
	api    ObjectAPI
	bucket string
	region string
	expiry time.Duration
	logger logging.Logger
}

// NewClient connects, verifies credentials and makes sure the bucket and
// its retention rule exist.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeValidation, "minio endpoint is required")
	}
	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	c := NewClientWithAPI(sdkClient{sdk}, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("MinIO client connected", logging.String("endpoint", cfg.Endpoint), logging.String("bucket", c.bucket))
	return c, nil
}

// NewClientWithAPI wraps an existing ObjectAPI without network calls.
func NewClientWithAPI(api ObjectAPI, cfg config.MinIOConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &Client{
		api:    api,
		bucket: cfg.Bucket,
		region: cfg.Region,
		expiry: cfg.PresignExpiry,
		logger: log,
	}
	if c.bucket == "" {
		c.bucket = config.DefaultMinIOBucket
	}
	if c.region == "" {
		c.region = "us-east-1"
	}
	if c.expiry <= 0 {
		c.expiry = time.Hour
	}
	return c
}

// Bucket returns the report bucket name.
func (c *Client) Bucket() string { return c.bucket }

// EnsureBucket creates the bucket when missing and installs the report
// expiry rule.  A lifecycle failure is logged, not returned; some S3
// implementations do not support it.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence")
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail(c.bucket)
		}
		c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	}

	rules := lifecycle.NewConfiguration()
	rules.Rules = []lifecycle.Rule{{
		ID:         "screening-report-expiry",
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: ReportPrefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(defaultReportRetentionDays)},
	}}
	if err := c.api.SetBucketLifecycle(ctx, c.bucket, rules); err != nil {
		c.logger.Warn("Failed to set lifecycle for report bucket", logging.Err(err))
	}
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	if !exists {
		return errors.New(errors.ErrCodeServiceUnavailable, "report bucket missing").WithDetail(c.bucket)
	}
	return nil
}

// PresignedGetURL returns a time-limited download URL.  A zero expiry uses
// the configured default.
func (c *Client) PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = c.expiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign object").WithDetail(objectKey)
	}
	return u.String(), nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

//Personal.AI order the ending
