package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"ecosprout/pkg/logger"
)

type CloudStorageClient struct {
	client        *storage.Client
	bucketName    string
	projectID     string
	publicBaseURL string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID, credentialsPath, publicBaseURL string) (*CloudStorageClient, error) {
	if strings.TrimSpace(bucketName) == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucketName
	}

	storageClient := &CloudStorageClient{
		client:        client,
		bucketName:    bucketName,
		projectID:     projectID,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}

	if err := storageClient.ensureBucket(ctx); err != nil {
		logger.Warn("Failed to verify bucket %s: %v", bucketName, err)
	}

	return storageClient, nil
}

func (c *CloudStorageClient) ensureBucket(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)
	_, err := bucket.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return err
	}
	if strings.TrimSpace(c.projectID) == "" {
		return errors.New("gcs project id is required to create bucket")
	}
	return bucket.Create(ctx, c.projectID, nil)
}

func (c *CloudStorageClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	wc := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400" // 1 day caching

	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	return c.publicBaseURL + "/" + key, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
