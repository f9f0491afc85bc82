package azure

import "context"

// BlobStorage defines the interface for blob storage operations.
// It allows handlers and services to be tested against an in-memory mock.
type BlobStorage interface {
	UploadPhoto(ctx context.Context, filename string, data []byte) (string, error)
	DownloadPhoto(ctx context.Context, blobName string) ([]byte, error)
	UploadReport(ctx context.Context, filename string, data []byte) (string, error)
	DownloadReport(ctx context.Context, blobName string) ([]byte, error)
}

// Ensure BlobStorageClient implements BlobStorage interface
var _ BlobStorage = (*BlobStorageClient)(nil)
