package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/config"
)

// AudioStore uploads audio files to durable blob storage and yields a stable
// reference URI. Objects are retained indefinitely; the pipeline never
// deletes them.
type AudioStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// MinioAudioStore implements AudioStore using MinIO.
type MinioAudioStore struct {
	client    *minio.Client
	bucket    string
	endpoint  string
	keyPrefix string
	useSSL    bool
}

// NewMinioClient creates the shared MinIO client from configuration.
func NewMinioClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// NewMinioAudioStore creates an audio store backed by the given client and
// ensures the target bucket exists.
func NewMinioAudioStore(ctx context.Context, client *minio.Client, cfg config.StorageConfig) (*MinioAudioStore, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioAudioStore{
		client:    client,
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		keyPrefix: cfg.KeyPrefix,
		useSSL:    cfg.UseSSL,
	}, nil
}

// Upload stores the file at localPath under a key derived from its base name
// and returns the object URI. The key is deterministic for a given scratch
// file, which is already uniquely named per request.
func (s *MinioAudioStore) Upload(ctx context.Context, localPath string) (string, error) {
	key := ObjectKey(s.keyPrefix, localPath)

	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(localPath),
	})
	if err != nil {
		return "", errors.Stage(errors.ErrUpload,
			fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, s.bucket, err))
	}

	return s.ObjectURL(key), nil
}

// ObjectURL returns the stable reference URI for a stored object.
func (s *MinioAudioStore) ObjectURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

// ObjectKey derives the storage key for a local file from its base name.
func ObjectKey(prefix, localPath string) string {
	base := filepath.Base(localPath)
	if prefix == "" {
		return base
	}
	return fmt.Sprintf("%s/%s", prefix, base)
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".webm":
		return "audio/webm"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
