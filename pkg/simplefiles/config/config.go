package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageS3     = "s3"
	StorageMinio  = "minio"
	StorageMemory = "memory"
)

// ServerConfig represents server configuration for the simple-files service
type ServerConfig struct {
	Port        string `yaml:"port" env:"PORT" env-default:"8080"`
	Environment string `yaml:"environment" env:"ENVIRONMENT" env-default:"development"` // development, production, testing
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Database configuration
	DatabaseURL   string `yaml:"database_url" env:"DATABASE_URL"`
	DBSchema      string `yaml:"db_schema" env:"FILES_DB_SCHEMA"`
	DBAutoMigrate bool   `yaml:"db_auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`

	// Storage configuration
	StorageDriver string   `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"s3"`
	S3            S3Config `yaml:"s3"`

	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES" env-default:"33554432"`
}

// S3Config holds the object store settings shared by the s3 and minio drivers.
type S3Config struct {
	Bucket                 string `yaml:"bucket" env:"S3_BUCKET"`
	Folder                 string `yaml:"folder" env:"S3_FOLDER"`
	Region                 string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint               string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKeyID            string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey        string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UseSSL                 bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"true"`
	UsePathStyle           bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucketIfNotExist bool   `yaml:"create_bucket_if_not_exist" env:"S3_CREATE_BUCKET_IF_NOT_EXIST" env-default:"false"`
	EnableSSE              bool   `yaml:"enable_sse" env:"S3_ENABLE_SSE" env-default:"false"`
	SSEAlgorithm           string `yaml:"sse_algorithm" env:"S3_SSE_ALGORITHM" env-default:"AES256"`
	SSEKMSKeyID            string `yaml:"sse_kms_key_id" env:"S3_SSE_KMS_KEY_ID"`
}

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WithFile reads a YAML, TOML, JSON or .env file. Environment variables
// still take precedence over values from the file.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// WithOverrides lets callers adjust the config programmatically after the
// environment has been applied.
func WithOverrides(fn func(*ServerConfig)) Option {
	return func(c *ServerConfig) error {
		fn(c)
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if !c.UseMemoryDatabase() &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", c.DatabaseURL)
	}

	switch c.StorageDriver {
	case StorageS3, StorageMemory:
	case StorageMinio:
		if c.S3.Endpoint == "" {
			return errors.New("S3_ENDPOINT is required for the minio driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s (use 's3', 'minio' or 'memory')", c.StorageDriver)
	}

	if c.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	if c.S3.Folder == "" {
		return errors.New("S3_FOLDER is required")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// UseMemoryDatabase reports whether records are kept in process memory.
func (c *ServerConfig) UseMemoryDatabase() bool {
	return c.DatabaseURL == "" || c.DatabaseURL == "memory"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel parses LogLevel, falling back to info.
func (c *ServerConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
