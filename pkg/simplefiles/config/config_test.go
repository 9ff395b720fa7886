package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/simplefiles"
	memorystorage "github.com/tendant/simple-files/pkg/simplefiles/storage/memory"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET", "files-bucket")
	t.Setenv("S3_FOLDER", "docs")
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "ENVIRONMENT", "LOG_LEVEL", "DATABASE_URL", "STORAGE_DRIVER", "S3_REGION", "S3_USE_SSL", "MAX_UPLOAD_BYTES")
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StorageS3, cfg.StorageDriver)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "AES256", cfg.S3.SSEAlgorithm)
	assert.True(t, cfg.S3.UseSSL)
	assert.False(t, cfg.S3.UsePathStyle)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.UseMemoryDatabase())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Env(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/files")
	t.Setenv("FILES_DB_SCHEMA", "files")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_USE_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.UseMemoryDatabase())
	assert.Equal(t, "files", cfg.DBSchema)
	assert.Equal(t, StorageMinio, cfg.StorageDriver)
	assert.True(t, cfg.S3.UsePathStyle)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing bucket",
			env:     map[string]string{"S3_FOLDER": "docs"},
			wantErr: "S3_BUCKET is required",
		},
		{
			name:    "missing folder",
			env:     map[string]string{"S3_BUCKET": "b"},
			wantErr: "S3_FOLDER is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"S3_BUCKET": "b", "S3_FOLDER": "f", "STORAGE_DRIVER": "ftp"},
			wantErr: "unsupported storage driver",
		},
		{
			name:    "minio without endpoint",
			env:     map[string]string{"S3_BUCKET": "b", "S3_FOLDER": "f", "STORAGE_DRIVER": "minio"},
			wantErr: "S3_ENDPOINT is required",
		},
		{
			name:    "bad database url",
			env:     map[string]string{"S3_BUCKET": "b", "S3_FOLDER": "f", "DATABASE_URL": "mysql://x"},
			wantErr: "unsupported DATABASE_URL format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "S3_BUCKET", "S3_FOLDER", "STORAGE_DRIVER", "DATABASE_URL", "S3_ENDPOINT")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WithFile(t *testing.T) {
	unsetEnv(t, "S3_BUCKET", "S3_FOLDER", "STORAGE_DRIVER", "DATABASE_URL", "S3_ENDPOINT")
	t.Setenv("PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "6060"
storage_driver: memory
s3:
  bucket: yaml-bucket
  folder: yaml-folder
`), 0o600))

	cfg, err := Load(WithFile(path))
	require.NoError(t, err)

	// environment wins over the file
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "yaml-bucket", cfg.S3.Bucket)
	assert.Equal(t, "yaml-folder", cfg.S3.Folder)
}

func TestLoad_WithOverrides(t *testing.T) {
	setRequired(t)

	cfg, err := Load(WithOverrides(func(c *ServerConfig) {
		c.StorageDriver = StorageMemory
	}))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
}

func TestBuildService_Memory(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(context.Background(), slog.Default())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, simplefiles.Location{Bucket: "files-bucket", Folder: "docs"}, svc.Location())

	result, err := svc.SaveFile(context.Background(), simplefiles.SaveFileRequest{
		Title: "t",
		File:  simplefiles.UploadedFile{Filename: "a.txt", Data: []byte("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, simplefiles.SaveStageRecorded, result.Stage)
}

func TestBuildObjectStore_Memory(t *testing.T) {
	cfg := &ServerConfig{StorageDriver: StorageMemory}
	store, err := cfg.BuildObjectStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &memorystorage.Backend{}, store)
}

func TestMinioEndpoint(t *testing.T) {
	tests := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"localhost:9000", true, "localhost:9000", true},
		{"localhost:9000", false, "localhost:9000", false},
		{"http://localhost:9000", true, "localhost:9000", false},
		{"https://minio.example.com/", false, "minio.example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			host, secure := minioEndpoint(tt.endpoint, tt.useSSL)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}
