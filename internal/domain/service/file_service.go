package service

import (
	"context"
	"io"
)

// FileStorage keeps uploaded item images. Keys are bucket-relative paths;
// Put returns the public URL of the stored object.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
