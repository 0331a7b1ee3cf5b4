package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
)

const maxErrorBody = 64 * 1024

// HTTPClient implements Client against the JSON backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     logging.Logger
}

// NewHTTPClient builds a client for baseURL, which must already be
// normalized (scheme present, no trailing slash).
func NewHTTPClient(baseURL string, hc *http.Client, tokens TokenProvider, log logging.Logger) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{baseURL: baseURL, http: hc, tokens: tokens, log: log}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Presign(ctx context.Context, req PresignRequest) (*PresignResponse, error) {
	var resp PresignResponse
	if err := c.do(ctx, http.MethodPost, "api/media/presign", req, &resp); err != nil {
		return nil, err
	}
	if resp.UploadURL == "" || resp.ObjectKey == "" {
		return nil, fmt.Errorf("%w: presign response without upload target", ErrUnavailable)
	}
	return &resp, nil
}

func (c *HTTPClient) CompleteUpload(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	var resp CompleteResponse
	if err := c.do(ctx, http.MethodPost, "api/media/complete", req, &resp); err != nil {
		return nil, err
	}
	if resp.MediaID == "" {
		return nil, fmt.Errorf("%w: complete response without media id", ErrUnavailable)
	}
	return &resp, nil
}

func (c *HTTPClient) MediaURL(ctx context.Context, mediaID string) (string, error) {
	var resp mediaURLResponse
	if err := c.do(ctx, http.MethodGet, "api/media/"+url.PathEscape(mediaID)+"/url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *HTTPClient) CreateCapsule(ctx context.Context, req CapsuleRequest) (*CapsuleResponse, error) {
	var resp CapsuleResponse
	if err := c.do(ctx, http.MethodPost, "api/capsule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.do(ctx, http.MethodPost, "api/order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) KakaoReady(ctx context.Context, req KakaoReadyRequest) (*KakaoReadyResponse, error) {
	var resp KakaoReadyResponse
	if err := c.do(ctx, http.MethodPost, "api/payments/kakao/ready", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) KakaoApprove(ctx context.Context, req KakaoApproveRequest) (*KakaoApproveResponse, error) {
	var resp KakaoApproveResponse
	if err := c.do(ctx, http.MethodPost, "api/payments/kakao/approve", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	var resp Room
	if err := c.do(ctx, http.MethodGet, "api/rooms/"+url.PathEscape(roomID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) FinalizeRoom(ctx context.Context, roomID string) (*Room, error) {
	var resp Room
	if err := c.do(ctx, http.MethodPost, "api/rooms/"+url.PathEscape(roomID)+"/finalize", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn(ctx, "backend request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newAPIError(resp.StatusCode, errorMessage(b))
		c.log.Debug(ctx, "backend rejected request", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%w: decode %s: %w", ErrUnavailable, path, err)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// errorMessage extracts a human readable message from an error response.
// Plain text bodies are used as-is.
func errorMessage(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil {
		for _, m := range []string{eb.Message, eb.Error, eb.Detail} {
			if m != "" {
				return m
			}
		}
		return ""
	}
	if b[0] == '<' {
		return ""
	}
	return strings.TrimSpace(string(b))
}
