package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
)

// contains http utils to deal with the remote API

// RequestIDHeader carries a per request identifier, logged on both ends.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID returns a context whose API calls carry id in RequestIDHeader.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestID returns the id set by WithRequestID, or a new one.
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// StatusError is returned for any response outside of the 2xx range.
type StatusError struct {
	Method string
	Path   string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http %s %s: %s", e.Method, e.Path, e.Status)
}

// RetryConfig controls the retries of idempotent requests.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetry is used by NewClient.
var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// NoRetry performs a single attempt.
var NoRetry = RetryConfig{MaxAttempts: 1}

// do executes an HTTP request with exponential backoff retry.
// The buildReq function is called on each attempt to produce a fresh request
// (required because request bodies are consumed on each attempt).
// Transport errors and 5xx responses are retried, anything else is returned as is.
func (c *Client) do(ctx context.Context, cfg RetryConfig, buildReq func() (*http.Request, error)) (*http.Response, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetry.MaxAttempts
	}

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = &StatusError{Method: req.Method, Path: req.URL.Path, Status: resp.Status, Code: resp.StatusCode}
			if attempt == cfg.MaxAttempts {
				// let the caller report the status of the last attempt
				return resp, nil
			}
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		c.log.Warn("request failed, retrying", "attempt", attempt, "max", cfg.MaxAttempts, "err", lastErr, "delay", delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", cfg.MaxAttempts, lastErr)
}

// roundTrip sends one API call and returns the response body.
// body is JSON encoded when not nil.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	addr := c.base.JoinPath(path)
	if len(query) > 0 {
		addr.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("cannot encode %s body: %w", path, err)
		}
	}

	retry := c.retry
	if method != http.MethodGet {
		retry = NoRetry
	}

	id := requestID(ctx)
	start := time.Now()
	resp, err := c.do(ctx, retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, addr.String(), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set(RequestIDHeader, id)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		c.log.Error("api call failed", "method", method, "path", path, "request_id", id, "err", err)
		return nil, err
	}
	defer resp.Body.Close()
	c.log.Debug("api call", "method", method, "path", path, "query", addr.RawQuery, "status", resp.StatusCode, "request_id", id, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, Path: path, Status: resp.Status, Code: resp.StatusCode}
	}
	// reading in a buffer to be able to report the json in debug mode
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read %s response body: %w", path, err)
	}
	return buf.Bytes(), nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into data.
func (c *Client) jwget(ctx context.Context, path string, query url.Values, data any) error {
	raw, err := c.roundTrip(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, data); err != nil {
		c.log.Debug("undecodable response", "path", path, "json", string(raw))
		return fmt.Errorf("could not decode %s json: %w", path, err)
	}
	return nil
}

// jwgetList is like jwget for collection endpoints. The API serves
// collections either as a bare array or wrapped in an object under key
// (e.g. {"base_currency": "EUR", "trades": [...]}); both are accepted.
func (c *Client) jwgetList(ctx context.Context, path, key string, query url.Values, data any) error {
	raw, err := c.roundTrip(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := decodeCollection(raw, key, data); err != nil {
		c.log.Debug("undecodable response", "path", path, "json", string(raw))
		return fmt.Errorf("could not decode %s json: %w", path, err)
	}
	return nil
}

// jwpost performs an HTTP POST with a JSON body. The response body is ignored.
func (c *Client) jwpost(ctx context.Context, path string, body any) error {
	_, err := c.roundTrip(ctx, http.MethodPost, path, nil, body)
	return err
}

// errNoCollection is returned when an envelope does not hold the expected key.
var errNoCollection = errors.New("no collection in response")

// decodeCollection decodes raw into data, unwrapping the envelope if any.
func decodeCollection(raw []byte, key string, data any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return json.Unmarshal(trimmed, data)
	}

	var jobj any
	if err := json.Unmarshal(trimmed, &jobj); err != nil {
		return err
	}
	path := "$." + key
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", errNoCollection, path, err)
	}
	if jval == nil {
		// {"trades": null} is an empty collection
		jval = []any{}
	}
	sub, err := json.Marshal(jval)
	if err != nil {
		return err
	}
	return json.Unmarshal(sub, data)
}
