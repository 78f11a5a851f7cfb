package storage_test

import (
	"context"
	"testing"

	"datafusion/core/storage"
	"datafusion/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArchiverEnabled(t *testing.T) {
	var nilArchiver *storage.Archiver
	assert.False(t, nilArchiver.Enabled())

	disabled := storage.NewArchiver(&mocks.Client{}, storage.Config{}, zap.NewNop())
	assert.False(t, disabled.Enabled())

	enabled := storage.NewArchiver(&mocks.Client{}, storage.Config{ArchiveEnabled: true}, zap.NewNop())
	assert.True(t, enabled.Enabled())
}

func TestArchiverArchive(t *testing.T) {
	client := &mocks.Client{}
	cfg := storage.Config{
		ArchiveEnabled: true,
		Bucket:         "datafusion",
		Prefix:         "exports/",
	}

	client.On("BucketExists", mock.Anything, "datafusion").Return(true, nil)
	client.On("PutObject", mock.Anything, "datafusion", mock.MatchedBy(func(name string) bool {
		return len(name) > len("exports/") && name[:len("exports/")] == "exports/"
	}), mock.Anything, int64(3), mock.Anything).Return(minio.UploadInfo{}, nil)

	a := storage.NewArchiver(client, cfg, zap.NewNop())
	object, err := a.Archive(context.Background(), "merged.csv", "text/csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Contains(t, object, "merged.csv")
	client.AssertExpectations(t)
}

func TestArchiverCreatesBucket(t *testing.T) {
	client := &mocks.Client{}
	cfg := storage.Config{ArchiveEnabled: true, Bucket: "fresh", Prefix: "exports/"}

	client.On("BucketExists", mock.Anything, "fresh").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "fresh", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "fresh", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	a := storage.NewArchiver(client, cfg, zap.NewNop())
	_, err := a.Archive(context.Background(), "merged.json", "application/json", []byte("[]"))
	require.NoError(t, err)
	client.AssertExpectations(t)
}
