// Package netx transfers raw bytes to presigned object-storage URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// StatusError is returned when storage answers a PUT with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload failed: %s", e.Status)
	}
	return fmt.Sprintf("upload failed: %s; body: %s", e.Status, e.Body)
}

// PutRequest describes one raw upload. Body is rewound before each attempt.
type PutRequest struct {
	URL         string
	Body        io.ReadSeeker
	Size        int64
	ContentType string
}

// Uploader sends file bytes straight to storage, bypassing the backend.
type Uploader struct {
	client *http.Client
}

func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client}
}

// Put uploads the body. The first attempt carries no Content-Type header.
// When storage rejects it with 403 and the URL signature covers
// content-type, Put retries exactly once with ContentType set. It returns
// the number of attempts made.
func (u *Uploader) Put(ctx context.Context, r PutRequest) (int, error) {
	err := u.put(ctx, r, false)
	if err == nil {
		return 1, nil
	}

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden || !SignsHeader(r.URL, "content-type") {
		return 1, err
	}

	return 2, u.put(ctx, r, true)
}

func (u *Uploader) put(ctx context.Context, r PutRequest, withContentType bool) error {
	if _, err := r.Body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.URL, io.NopCloser(r.Body))
	if err != nil {
		return err
	}
	req.ContentLength = r.Size
	if r.Size == 0 {
		req.Body = http.NoBody
	}
	if withContentType && r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// SignsHeader reports whether a SigV4 presigned URL lists header among its
// X-Amz-SignedHeaders. Header names compare case-insensitively.
func SignsHeader(rawURL, header string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	signed := u.Query().Get("X-Amz-SignedHeaders")
	if signed == "" {
		return false
	}
	header = strings.ToLower(header)
	for _, h := range strings.Split(signed, ";") {
		if strings.ToLower(strings.TrimSpace(h)) == header {
			return true
		}
	}
	return false
}
