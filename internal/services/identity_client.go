package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
)

const (
	PathLogin         = "/login"
	PathResetPassword = "/reset-password"
)

// IdentityBackend is the remote identity service as seen by the account flows.
type IdentityBackend interface {
	Login(ctx context.Context, req LoginPayload) (BackendResponse, error)
	ResetPassword(ctx context.Context, req ResetPayload) (BackendResponse, error)
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ReLogin  bool   `json:"re_login"`
}

type ResetPayload struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// BackendResponse is a completed HTTP exchange. Non-2xx statuses are not
// errors at this layer; callers classify them.
type BackendResponse struct {
	Status int
	Body   json.RawMessage
}

func (r BackendResponse) OK() bool { return r.Status >= 200 && r.Status < 300 }

// IdentityClient talks JSON over HTTP to the identity backend.
type IdentityClient struct {
	BaseURL string
	Client  *http.Client
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &IdentityClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *IdentityClient) Login(ctx context.Context, req LoginPayload) (BackendResponse, error) {
	return c.post(ctx, PathLogin, req)
}

func (c *IdentityClient) ResetPassword(ctx context.Context, req ResetPayload) (BackendResponse, error) {
	return c.post(ctx, PathResetPassword, req)
}

func (c *IdentityClient) post(ctx context.Context, path string, payload any) (BackendResponse, error) {
	if c == nil {
		return BackendResponse{}, oops.Code("BACKEND_UNREACHABLE").With("path", path).Errorf("identity client is nil")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return BackendResponse{}, oops.Code("BACKEND_ENCODE_FAILED").With("path", path).Wrap(err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return BackendResponse{}, oops.Code("BACKEND_UNREACHABLE").With("path", path).Wrap(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return BackendResponse{}, oops.Code("BACKEND_UNREACHABLE").With("path", path).Wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return BackendResponse{}, oops.Code("BACKEND_DECODE_FAILED").
			With("path", path).
			With("status", resp.StatusCode).
			Wrap(err)
	}
	out := BackendResponse{Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		if !json.Valid(raw) {
			// keep non-JSON bodies (proxy error pages and the like) as a JSON string
			raw, _ = json.Marshal(string(raw))
		}
		out.Body = raw
	}
	return out, nil
}
