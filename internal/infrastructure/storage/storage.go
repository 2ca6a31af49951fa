package storage

import (
	"context"
	"fmt"

	"ecosprout/internal/domain/service"
	"ecosprout/pkg/config"
)

// New builds the configured image storage backend. It returns nil when
// STORAGE_DRIVER is "none"; uploads are then rejected by the item use case.
func New(ctx context.Context, cfg *config.Config) (service.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "", "none":
		return nil, nil
	case "gcs":
		return NewCloudStorageClient(ctx, cfg.Storage.Bucket, cfg.Database.FirebaseProject, cfg.Database.FirebaseServiceAccountPath, cfg.Storage.PublicBaseURL)
	case "minio":
		return NewMinioClient(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
