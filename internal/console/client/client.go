package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second

	// error documents larger than this are truncated
	maxErrorBody = 64 << 10
)

// Client issues the console's requests against the users, books and loans
// backends. It never retries: every failure is terminal for that call.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit paces outgoing requests. A non-positive rate disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a backend client. A zero timeout uses the 10s default.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Inf, 0),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchList reads a JSON array from url. Items keep the server's order.
func FetchList[T any](ctx context.Context, c *Client, url string) Result[[]T] {
	resp, err := c.do(ctx, "fetch", http.MethodGet, url, nil)
	if err != nil {
		return Fail[[]T](err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		discard(resp.Body)
		return Fail[[]T](statusError("fetch", http.MethodGet, url, resp.StatusCode, ""))
	}

	items := []T{}
	if err := decodeJSON(resp.Body, &items); err != nil {
		return Fail[[]T](malformed("fetch", http.MethodGet, url, resp.StatusCode, err))
	}
	if items == nil {
		items = []T{}
	}
	return Ok(items)
}

// Save sends payload as JSON with method (POST to create, PUT to update).
// On a non-2xx status the response body becomes the error detail.
func Save[T any](ctx context.Context, c *Client, url string, payload any, method string) Result[T] {
	body, err := json.Marshal(payload)
	if err != nil {
		return Fail[T](&Error{Op: "save", Method: method, URL: url, kind: ErrMalformed, cause: fmt.Errorf("encode payload: %w", err)})
	}

	resp, err := c.do(ctx, "save", method, url, body)
	if err != nil {
		return Fail[T](err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		detail := errorDetail(resp.Body)
		return Fail[T](statusError("save", method, url, resp.StatusCode, detail))
	}

	// the saved entity is expected back; an empty body is malformed too
	var result T
	if err := decodeJSON(resp.Body, &result); err != nil {
		return Fail[T](malformed("save", method, url, resp.StatusCode, err))
	}
	return Ok(result)
}

// Delete issues a DELETE against url. Only the status code is inspected.
func Delete(ctx context.Context, c *Client, url string) Result[struct{}] {
	resp, err := c.do(ctx, "delete", http.MethodDelete, url, nil)
	if err != nil {
		return Fail[struct{}](err)
	}
	defer resp.Body.Close()
	discard(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return Fail[struct{}](statusError("delete", http.MethodDelete, url, resp.StatusCode, ""))
	}
	return Ok(struct{}{})
}

// do performs one HTTP round trip. Transport failures come back as *Error.
func (c *Client) do(ctx context.Context, op, method, url string, body []byte) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &Error{Op: op, Method: method, URL: url, kind: ErrTransport, cause: fmt.Errorf("rate limiter: %w", err)}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &Error{Op: op, Method: method, URL: url, kind: ErrTransport, cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed", "op", op, "method", method, "url", url, "error", err)
		return nil, &Error{Op: op, Method: method, URL: url, kind: ErrTransport, cause: err}
	}

	c.logger.Debug("backend request",
		"op", op,
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusError(op, method, url string, status int, detail string) *Error {
	return &Error{Op: op, Method: method, URL: url, Status: status, Detail: detail, kind: ErrStatus}
}

func malformed(op, method, url string, status int, err error) *Error {
	return &Error{Op: op, Method: method, URL: url, Status: 0, kind: ErrMalformed, cause: fmt.Errorf("decode response (HTTP %d): %w", status, err)}
}

// errorDetail renders the backend's error document compactly. Bodies that are
// not JSON are passed through as text.
func errorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// decodeJSON decodes exactly one JSON document from r into v.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON document")
	}
	return nil
}

func discard(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
}
