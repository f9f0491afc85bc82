package azure

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory BlobStorage implementation for testing
type MockBlobStorageClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMockBlobStorageClient creates a new mock blob storage client
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadPhoto stores a photo in memory
func (c *MockBlobStorageClient) UploadPhoto(ctx context.Context, filename string, data []byte) (string, error) {
	return c.upload("photos", filename, data)
}

// DownloadPhoto reads a photo from memory
func (c *MockBlobStorageClient) DownloadPhoto(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(blobName)
}

// UploadReport stores a report in memory
func (c *MockBlobStorageClient) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	return c.upload("reports", filename, data)
}

// DownloadReport reads a report from memory
func (c *MockBlobStorageClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(blobName)
}

func (c *MockBlobStorageClient) upload(prefix, filename string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blobName := fmt.Sprintf("%s/%s", prefix, filename)
	c.Storage[blobName] = data

	if c.logger != nil {
		c.logger.Info("mock: blob uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

func (c *MockBlobStorageClient) download(blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}

	return data, nil
}

// Ensure MockBlobStorageClient implements BlobStorage interface
var _ BlobStorage = (*MockBlobStorageClient)(nil)
