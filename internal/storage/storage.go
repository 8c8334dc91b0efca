package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("file storage is not configured")

// FileStorage holds exercise tutorial media (videos, images).
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of objectKey.
	// The uploader must send the same Content-Type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL for viewing objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// disabledStorage is used when s3.bucket_name is empty.
type disabledStorage struct{}

// Disabled returns a FileStorage whose operations all fail with ErrStorageDisabled.
func Disabled() FileStorage { return disabledStorage{} }

func (disabledStorage) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorage) DeleteObject(context.Context, string) error {
	return ErrStorageDisabled
}
