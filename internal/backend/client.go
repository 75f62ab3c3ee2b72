// Package backend is the REST client for the board API. It owns the HTTP
// plumbing (JSON bodies, bearer attachment, envelope unwrapping) and the
// per-resource operation sets; everything above it works with normalized
// models only.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/observability"
)

// genericFailure is the fallback message when the backend reports a failure
// without a usable message in the body.
const genericFailure = "요청에 실패했습니다."

// Client talks to the board API. It is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// New creates a client for the board API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     middleware.Logger,
	}
}

// envelope is the optional response wrapper the backend uses:
// { success, message, data } on the happy path, { error, errors[] } on
// validation failures. Older endpoints return the payload bare.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  []fieldError    `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type fieldError struct {
	DefaultMessage string `json:"defaultMessage"`
}

// extractMessage pulls one human-readable failure message out of a parsed
// body: message, then error, then the first validation error, then a generic
// fallback.
func (e *envelope) extractMessage() string {
	if e == nil {
		return genericFailure
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	if len(e.Errors) > 0 && e.Errors[0].DefaultMessage != "" {
		return e.Errors[0].DefaultMessage
	}
	return genericFailure
}

// do performs one backend call. A non-empty token is attached as a bearer
// credential. body == nil sends no payload; out == nil discards the result.
// Failures of any kind surface as *models.AppError carrying a single
// user-facing message.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return models.NewInternalError(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		observability.BackendErrors.Inc()
		observability.ObserveBackendCall(method, "transport_error", start)
		c.log.ErrorContext(ctx, "backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return models.NewBackendError(0, genericFailure)
	}
	defer resp.Body.Close()

	observability.ObserveBackendCall(method, strconv.Itoa(resp.StatusCode), start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewBackendError(resp.StatusCode, genericFailure)
	}

	// Only object bodies can be envelopes; bare arrays and scalars are
	// payloads in their own right and pass through untouched.
	var env *envelope
	if body := bytes.TrimSpace(raw); len(body) > 0 && body[0] == '{' {
		var parsed envelope
		if json.Unmarshal(raw, &parsed) == nil {
			env = &parsed
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.extractMessage()
		c.log.WarnContext(ctx, "backend call rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return models.NewBackendError(resp.StatusCode, msg)
	}

	if env != nil && env.Success != nil && !*env.Success {
		return models.NewBackendError(resp.StatusCode, env.extractMessage())
	}

	if out == nil {
		return nil
	}

	// Unwrap the data key when present, otherwise decode the raw body.
	payload := raw
	if env != nil && env.Data != nil {
		payload = env.Data
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if !json.Valid(payload) {
		// the body was not JSON; nothing to decode
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return models.NewInternalError(fmt.Errorf("decode response for %s %s: %w", method, path, err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) patch(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, token, body, out)
}

func (c *Client) delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// Param is one query-string entry. A nil Value drops the entry entirely.
type Param struct {
	Key   string
	Value any
}

// Params preserves insertion order, unlike a map.
type Params []Param

// Encode builds a query string, omitting nil values and stringifying the
// rest. The result has no leading "?".
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		if param.Value == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprint(param.Value)))
	}
	return b.String()
}

// withQuery appends an encoded query string to path when it is non-empty.
func withQuery(path string, p Params) string {
	qs := p.Encode()
	if qs == "" {
		return path
	}
	return path + "?" + qs
}
