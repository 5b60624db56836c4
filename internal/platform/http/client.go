package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Client is a wrapper for HTTP client with rate limiting
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter

	maxRetryTimeout time.Duration
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Limiter:         rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSec)), opts.RequestsPerSec),
		maxRetryTimeout: opts.MaxRetryTimeout,
	}
}

// Retry runs op with exponential backoff until it succeeds, returns a
// permanent error, or the retry budget runs out. Every attempt, retries
// included, waits for the limiter first.
func (c *Client) Retry(ctx context.Context, op func() error) error {
	limited := func() error {
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return op()
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = c.maxRetryTimeout

	return backoff.Retry(limited, backoff.WithContext(backoffStrategy, ctx))
}

// Do performs req with rate limiting and retries. Transport errors, 429 and
// 5xx responses are retried; any other response is returned as is so callers
// can decode API error bodies.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var resp *http.Response
	operation := func() error {
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}

		var err error
		resp, err = c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		if retryable(resp.StatusCode) {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return &HTTPStatusError{StatusCode: resp.StatusCode}
		}
		return nil
	}

	if err := c.Retry(ctx, operation); err != nil {
		return nil, err
	}

	return resp, nil
}

// DoRequest performs req under ctx and fails on any non-200 status.
func (c *Client) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// HTTPStatusError represents an error due to an unexpected HTTP status code
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return "unexpected status code: " + http.StatusText(e.StatusCode)
}
