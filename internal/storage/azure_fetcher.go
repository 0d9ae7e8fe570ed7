package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage reads images from Azure Blob Storage
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) (image.Image, string, error)
}

type azureStorage struct {
	client *azblob.Client
	limit  int64
}

// NewAzureStorage connects with a shared-key credential
func NewAzureStorage(accountName, accountKey string, maxImageBytes int64) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &azureStorage{client: client, limit: maxImageBytes}, nil
}

func (s *azureStorage) GetImage(ctx context.Context, blobURL string) (image.Image, string, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, "", err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}
	body := downloadResponse.Body
	defer body.Close()

	if s.limit > 0 && downloadResponse.ContentLength != nil && *downloadResponse.ContentLength > s.limit {
		return nil, "", fmt.Errorf("%w: blob is %d bytes", ErrTooLarge, *downloadResponse.ContentLength)
	}
	return DecodeImage(body, s.limit)
}

// ParseBlobURL extracts container and blob names. Both
// https://acct.blob.core.windows.net/container/path/to/blob and
// https://acct.blob.core.windows.net/container?blob=path/to/blob are accepted.
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}

	path := strings.TrimPrefix(parsedURL.Path, "/")
	container, blob, _ = strings.Cut(path, "/")
	if q := parsedURL.Query().Get("blob"); q != "" {
		blob = q
	}
	if container == "" || blob == "" {
		return "", "", fmt.Errorf("invalid blob URL %q: container and blob name are required", blobURL)
	}
	return container, blob, nil
}
