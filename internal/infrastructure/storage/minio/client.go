// Package minio archives binary structure artifacts (rendered 2D/3D images)
// to S3-compatible object storage.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// API is the subset of the minio client the artifact store uses; tests
// substitute a fake.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Client wraps the minio SDK with the configured bucket.
type Client struct {
	api    API
	bucket string
	logger logging.Logger
}

// NewClient connects to the object store and ensures the artifact bucket
// exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: api, bucket: cfg.Bucket, logger: log.Named("minio")}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return c, nil
}

// NewClientWithAPI injects an API implementation; used by tests.
func NewClientWithAPI(api API, bucket string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{api: api, bucket: bucket, logger: log}
}

func (c *Client) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "failed to reach object store")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create bucket %q", c.bucket))
	}
	c.logger.Info("created artifact bucket", logging.String("bucket", c.bucket))
	return nil
}

func (c *Client) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to store object %q", key))
	}
	return nil
}
