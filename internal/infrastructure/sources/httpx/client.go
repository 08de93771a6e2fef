// Package httpx is the shared HTTP plumbing for the outbound read-only data
// sources: JSON round trips with bounded exponential-backoff retries on
// transient failures.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
)

// maxErrorBodyBytes bounds how much of an error response is kept for
// diagnostics.
const maxErrorBodyBytes = 2048

// StatusError reports a non-2xx response.  Callers branch on StatusCode to
// distinguish "not found" from infrastructure failures.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration

	// Source labels metrics and log lines, e.g. "pubchem".
	Source  string
	Logger  logging.Logger
	Metrics *appmetrics.AppMetrics
}

// Client issues JSON requests with retries.  Retries fire on network errors,
// 429, and 5xx; everything else is returned to the caller on the first
// attempt.
type Client struct {
	hc         *http.Client
	maxRetries int
	baseDelay  time.Duration
	source     string
	logger     logging.Logger
	metrics    *appmetrics.AppMetrics
}

// New constructs a Client from Options, filling in conservative defaults.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = 250 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Client{
		hc:         &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		source:     opts.Source,
		logger:     opts.Logger.Named("httpx"),
		metrics:    opts.Metrics,
	}
}

// GetJSON fetches url and decodes the response body into dest.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, dest interface{}) error {
	return c.roundTrip(ctx, http.MethodGet, url, headers, nil, func(body []byte) error {
		return json.Unmarshal(body, dest)
	})
}

// GetBytes fetches url and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var out []byte
	err := c.roundTrip(ctx, http.MethodGet, url, headers, nil, func(body []byte) error {
		out = body
		return nil
	})
	return out, err
}

// PostJSON sends payload as a JSON body and decodes the response into dest.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	return c.roundTrip(ctx, http.MethodPost, url, headers, body, func(respBody []byte) error {
		return json.Unmarshal(respBody, dest)
	})
}

func (c *Client) roundTrip(ctx context.Context, method, url string, headers map[string]string,
	body []byte, consume func([]byte) error) error {

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			c.logger.Debug("retrying request",
				logging.String("source", c.source),
				logging.String("url", url),
				logging.Int("attempt", attempt))
			if c.metrics != nil {
				c.metrics.SourceRetriesTotal.WithLabelValues(c.source).Inc()
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		started := time.Now()
		resp, err := c.hc.Do(req)
		if c.metrics != nil {
			appmetrics.RecordSourceRequest(c.metrics, c.source, time.Since(started), err)
		}
		if err != nil {
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       truncate(respBody),
			}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       truncate(respBody),
			}
		}
		return consume(respBody)
	}
	return lastErr
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return string(body)
}
