package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-files/pkg/simplefiles"
	"github.com/tendant/simple-files/pkg/simplefiles/repo/memory"
	repopg "github.com/tendant/simple-files/pkg/simplefiles/repo/postgres"
	memorystorage "github.com/tendant/simple-files/pkg/simplefiles/storage/memory"
	miniostorage "github.com/tendant/simple-files/pkg/simplefiles/storage/minio"
	s3storage "github.com/tendant/simple-files/pkg/simplefiles/storage/s3"
)

// BuildService creates a Service instance from the server configuration.
// The returned cleanup function releases the database pool, if any.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger, extra ...simplefiles.Option) (simplefiles.Service, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, cleanup, err := c.BuildRepository(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildObjectStore(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build object store: %w", err)
	}

	options := []simplefiles.Option{
		simplefiles.WithRepository(repo),
		simplefiles.WithObjectStore(store),
		simplefiles.WithLocation(simplefiles.Location{Bucket: c.S3.Bucket, Folder: c.S3.Folder}),
		simplefiles.WithLogger(logger),
		simplefiles.WithEventSink(simplefiles.NewLogEventSink(logger)),
	}
	options = append(options, extra...)

	svc, err := simplefiles.New(options...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context, logger *slog.Logger) (simplefiles.Repository, func(), error) {
	if c.UseMemoryDatabase() {
		logger.Warn("Using in-memory repository; records are lost on restart")
		return memory.New(), func() {}, nil
	}

	if c.DBAutoMigrate {
		if err := repopg.Migrate(c.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
	}

	pool, err := c.NewPool(ctx)
	if err != nil {
		return nil, nil, err
	}
	return repopg.NewWithPool(pool), pool.Close, nil
}

// NewPool opens a pgx pool for DatabaseURL, setting search_path when a
// schema is configured, and verifies connectivity.
func (c *ServerConfig) NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.UseMemoryDatabase() {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema := c.DBSchema; schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// BuildObjectStore creates the ObjectStore selected by StorageDriver
func (c *ServerConfig) BuildObjectStore(ctx context.Context) (simplefiles.ObjectStore, error) {
	var createBucket string
	if c.S3.CreateBucketIfNotExist {
		createBucket = c.S3.Bucket
	}

	switch c.StorageDriver {
	case StorageMemory:
		return memorystorage.New(), nil

	case StorageS3:
		return s3storage.New(ctx, s3storage.Config{
			Region:          c.S3.Region,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			EnableSSE:       c.S3.EnableSSE,
			SSEAlgorithm:    c.S3.SSEAlgorithm,
			SSEKMSKeyID:     c.S3.SSEKMSKeyID,
			CreateBucket:    createBucket,
		})

	case StorageMinio:
		endpoint, secure := minioEndpoint(c.S3.Endpoint, c.S3.UseSSL)
		return miniostorage.New(ctx, miniostorage.Config{
			Endpoint:        endpoint,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Region:          c.S3.Region,
			UseSSL:          secure,
			CreateBucket:    createBucket,
		})

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}
}

// minioEndpoint strips a URL scheme from endpoint; an explicit scheme wins over useSSL.
func minioEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	}
	return endpoint, useSSL
}
