package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"hexaboard_backend/internal/config"
	"hexaboard_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider stores lecture videos and course thumbnails and hands back
// a stable URL for them.
type StorageProvider interface {
	Upload(ctx context.Context, r io.Reader, size int64, objectName, contentType string) (string, error)
}

// NewStorageProvider picks the backend from config: "minio" for object
// storage, anything else falls back to the local filesystem.
func NewStorageProvider(cfg config.StorageConfig) (StorageProvider, error) {
	if cfg.Type == "minio" {
		return NewMinioStorageProvider(cfg)
	}
	return NewLocalStorageProvider(cfg.LocalPath), nil
}

// ObjectName builds a collision-free storage key that keeps the original
// extension for content-type sniffing downstream.
func ObjectName(prefix, originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s/%d_%s%s", prefix, time.Now().Unix(), uuid.New().String()[:8], ext)
}

type LocalStorageProvider struct {
	baseDir string
}

func NewLocalStorageProvider(baseDir string) *LocalStorageProvider {
	return &LocalStorageProvider{baseDir: baseDir}
}

func (p *LocalStorageProvider) Upload(ctx context.Context, r io.Reader, size int64, objectName, contentType string) (string, error) {
	path := filepath.Join(p.baseDir, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}

	return "/uploads/" + objectName, nil
}

type MinioStorageProvider struct {
	client *minio.Client
	bucket string
}

func NewMinioStorageProvider(cfg config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Log.Info("created storage bucket", zap.String("bucket", cfg.MinioBucket))
	}

	return &MinioStorageProvider{client: client, bucket: cfg.MinioBucket}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, r io.Reader, size int64, objectName, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("http://%s/%s/%s", p.client.EndpointURL().Host, p.bucket, objectName), nil
}
