package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// BlobStorageClient wraps Azure Blob Storage SDK for product photos and
// generated progress reports.
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// UploadPhoto uploads a product photo (JPEG) and returns its blob name
func (c *BlobStorageClient) UploadPhoto(ctx context.Context, filename string, data []byte) (string, error) {
	c.logger.Info("uploading photo to blob storage",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)),
	)

	blobName := fmt.Sprintf("photos/%s", filename)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("image/jpeg"),
		},
	})

	if err != nil {
		c.logger.Error("failed to upload photo",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	c.logger.Info("photo uploaded successfully", zap.String("blob_name", blobName))

	return blobName, nil
}

// DownloadPhoto downloads a product photo by blob name
func (c *BlobStorageClient) DownloadPhoto(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(ctx, blobName)
}

// UploadReport uploads a generated progress report PDF and returns its blob name
func (c *BlobStorageClient) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	c.logger.Info("uploading report to blob storage",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)),
	)

	blobName := fmt.Sprintf("reports/%s", filename)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("application/pdf"),
		},
	})

	if err != nil {
		c.logger.Error("failed to upload report",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	c.logger.Info("report uploaded successfully", zap.String("blob_name", blobName))

	return blobName, nil
}

// DownloadReport downloads a generated report by blob name
func (c *BlobStorageClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(ctx, blobName)
}

func (c *BlobStorageClient) download(ctx context.Context, blobName string) ([]byte, error) {
	c.logger.Info("downloading blob", zap.String("blob_name", blobName))

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		c.logger.Error("failed to read blob data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	c.logger.Info("blob downloaded successfully",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

// toPtr is a helper function to convert a value to a pointer
func toPtr(s string) *string {
	return &s
}
