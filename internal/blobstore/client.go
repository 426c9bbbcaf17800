// Package blobstore provides the client for the blob storage collaborator.
// Uploads are named binary payloads; the service answers with a stable path
// that records reference.
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxUploadSize caps a single upload at 6MB, matching the storage service's
// object limit for image buckets.
const maxUploadSize = 6 << 20

// ErrUploadRejected indicates the storage service refused the upload.
var ErrUploadRejected = errors.New("upload rejected by storage service")

// Client uploads binary payloads to the blob storage service.
type Client interface {
	// Upload stores data under name and returns the storage path for it.
	Upload(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}

type httpClient struct {
	baseURL string
	bucket  string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Ensure httpClient implements Client.
var _ Client = (*httpClient)(nil)

// NewHTTPClient creates a blob storage client that uploads objects into bucket
// at the storage endpoint under baseURL.
func NewHTTPClient(baseURL, bucket, apiKey string, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		bucket:  bucket,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Upload stores data under name in the configured bucket.
// Flow:
// 1. Validate inputs and size
// 2. POST to {base}/storage/v1/object/{bucket}/{name}
// 3. Parse the returned object key as the storage path
func (c *httpClient) Upload(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("blob name cannot be empty")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("blob data cannot be empty")
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("blob size %d bytes exceeds maximum of %d bytes", len(data), maxUploadSize)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, url.PathEscape(c.bucket), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close upload response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "... (truncated)"
		}
		c.logger.Error("blob upload failed",
			"status", resp.StatusCode,
			"bucket", c.bucket,
			"name", name,
			"body", preview)
		return "", fmt.Errorf("%w: status %d", ErrUploadRejected, resp.StatusCode)
	}

	var result struct {
		Key string `json:"Key"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if result.Key == "" {
		return "", fmt.Errorf("upload response missing object key")
	}

	c.logger.Debug("blob uploaded",
		"bucket", c.bucket,
		"name", name,
		"path", result.Key,
		"size", len(data))

	return result.Key, nil
}
