package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

// Config options for the MinIO backend
type Config struct {
	Endpoint        string // host:port, without scheme
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	UseSSL          bool

	// CreateBucket names a bucket to create at startup when it is missing.
	CreateBucket string
}

// Backend is a MinIO implementation of the simplefiles.ObjectStore interface
type Backend struct {
	client *minio.Client
	config Config
}

// New creates a new MinIO storage backend
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	backend := &Backend{client: client, config: config}

	if config.CreateBucket != "" {
		if err := backend.createBucketIfNotExists(ctx, config.CreateBucket); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return backend, nil
}

func (b *Backend) createBucketIfNotExists(ctx context.Context, bucket string) error {
	exists, err := b.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	return b.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: b.config.Region})
}

// Upload writes data to MinIO under params.ObjectKey
func (b *Backend) Upload(ctx context.Context, data []byte, params simplefiles.UploadParams) error {
	_, err := b.client.PutObject(ctx,
		params.Bucket,
		params.ObjectKey,
		bytes.NewReader(data),
		params.Size,
		minio.PutObjectOptions{
			ContentType: params.ContentType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}
	return nil
}

// Download reads an object from MinIO fully into memory. The client defers
// the request until the first read, so a missing key surfaces from the read.
func (b *Backend) Download(ctx context.Context, bucket, objectKey string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.downloadError(objectKey, err)
	}
	defer obj.Close()

	data, err := simplefiles.ReadChunked(obj)
	if err != nil {
		return nil, b.downloadError(objectKey, err)
	}
	return data, nil
}

func (b *Backend) downloadError(objectKey string, err error) error {
	if isNoSuchKey(err) {
		return fmt.Errorf("%w: %s", simplefiles.ErrObjectNotFound, objectKey)
	}
	return fmt.Errorf("failed to download from minio: %w", err)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
