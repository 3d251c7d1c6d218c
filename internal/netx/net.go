// Package netx holds the plain-HTTP leg of blob uploads: the record store
// hands out presigned S3 URLs and the client PUTs the bytes there directly.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultContentType is used when the caller does not know the blob type.
const DefaultContentType = "application/octet-stream"

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UploadToPresignedURL PUTs data to a presigned object-storage URL using
// http.DefaultClient.
func UploadToPresignedURL(ctx context.Context, url string, data []byte, contentType string) error {
	return UploadWith(ctx, http.DefaultClient, url, data, contentType)
}

// UploadWith is UploadToPresignedURL with an explicit HTTP client.
// Any status other than 200 OK is reported together with the response body.
func UploadWith(ctx context.Context, c HTTPDoer, url string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = DefaultContentType
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
