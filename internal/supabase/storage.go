package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// StorageClient uploads binary objects into buckets and derives their
// public URLs.
type StorageClient struct {
	cfg        Config
	httpClient *http.Client
}

// Upload stores data at bucket/path, replacing any existing object, and
// returns the stored path.
func (c *StorageClient) Upload(ctx context.Context, accessToken, bucket, path string, data []byte, contentType string) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportErr("upload "+bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusErr("upload "+bucket, resp.StatusCode)
	}
	return path, nil
}

// PublicURL derives the public URL for an object previously uploaded to a
// public bucket. No request is made; the URL shape is part of the API.
func (c *StorageClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.cfg.BaseURL, bucket, path)
}
