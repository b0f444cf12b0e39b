package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads build artifacts (sampling logs, hint files) to object
// storage so the profiling farm can fetch them without access to the build
// machine.
type Publisher struct {
	client Client
	bucket string
	log    *zap.Logger
}

// NewPublisher creates a publisher targeting the configured bucket.
func NewPublisher(client Client, bucket string, log *zap.Logger) *Publisher {
	return &Publisher{client: client, bucket: bucket, log: log}
}

// Publish uploads a local file under the given object name, creating the
// bucket on first use.
func (p *Publisher) Publish(ctx context.Context, localPath, objectName string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
	}

	if objectName == "" {
		objectName = filepath.Base(localPath)
	}

	info, err := p.client.FPutObject(ctx, p.bucket, objectName, localPath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	p.log.Info("Published artifact",
		zap.String("object", objectName),
		zap.String("bucket", p.bucket),
		zap.Int64("size", info.Size))
	return nil
}
