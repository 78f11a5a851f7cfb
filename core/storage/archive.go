package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver writes exported files to object storage so merge results
// outlive the session that produced them.
type Archiver struct {
	client Client
	cfg    Config
	logger *zap.Logger
}

// NewArchiver creates an archiver on top of a storage client.
func NewArchiver(client Client, cfg Config, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, cfg: cfg, logger: logger}
}

// Enabled reports whether archiving is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.cfg.ArchiveEnabled && a.client != nil
}

// Archive uploads one exported file under the configured prefix. The
// object name gets a timestamp so repeated exports of the same
// filename never overwrite each other.
func (a *Archiver) Archive(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.cfg.Bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", a.cfg.Bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.cfg.Bucket, minio.MakeBucketOptions{Region: a.cfg.Region}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", a.cfg.Bucket, err)
		}
	}

	objectName := fmt.Sprintf("%s%s_%s", a.cfg.Prefix, time.Now().UTC().Format("20060102T150405"), filename)
	_, err = a.client.PutObject(ctx, a.cfg.Bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", objectName, err)
	}

	a.logger.Info("Export archived",
		zap.String("bucket", a.cfg.Bucket),
		zap.String("object", objectName),
		zap.Int("bytes", len(data)),
	)
	return objectName, nil
}
