// Package httpclient holds the JSON request and retry plumbing shared by the
// outbound collaborators.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default retry configuration
const (
	DefaultMaxRetries      = 2
	DefaultInitialInterval = 2 * time.Second
	DefaultMaxInterval     = 10 * time.Second
	DefaultMaxElapsedTime  = 30 * time.Second
)

// RetryConfig bounds the retries of one outbound call
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetry returns the retry settings used in production
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		MaxElapsedTime:  DefaultMaxElapsedTime,
	}
}

// NoRetry disables retries
func NoRetry() RetryConfig {
	return RetryConfig{}
}

// NewBackOff builds a context-aware exponential backoff
func (r RetryConfig) NewBackOff(ctx context.Context) backoff.BackOff {
	if r.MaxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	bo := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		bo.InitialInterval = r.InitialInterval
	}
	if r.MaxInterval > 0 {
		bo.MaxInterval = r.MaxInterval
	}
	bo.MaxElapsedTime = r.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(bo, r.MaxRetries), ctx)
}

// StatusError is a non-2xx response
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Retryable reports whether the call may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Request describes one JSON call
type Request struct {
	Method  string
	URL     string
	Body    interface{}
	Form    map[string]string
	Header  http.Header
	Retry   RetryConfig
	Timeout time.Duration
	// Idempotent marks a POST that only reads, such as a search
	Idempotent bool
}

// retryable reports whether repeating the request cannot duplicate a side effect
func (r Request) retryable() bool {
	if r.Idempotent {
		return true
	}
	switch r.Method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Do sends the request and decodes a JSON response into out when out is
// non-nil. Transport errors, 429 and 5xx responses are retried only for
// idempotent requests; a POST that may have been accepted is sent once.
func Do(ctx context.Context, client *http.Client, r Request, out interface{}) error {
	return send(ctx, client, r, func(body io.Reader) error {
		if out == nil {
			_, _ = io.Copy(io.Discard, body)
			return nil
		}
		if err := json.NewDecoder(body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

// DoBytes sends the request like Do and returns at most limit bytes of the body
func DoBytes(ctx context.Context, client *http.Client, r Request, limit int64) ([]byte, error) {
	var out []byte
	err := send(ctx, client, r, func(body io.Reader) error {
		b, err := io.ReadAll(io.LimitReader(body, limit))
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func send(ctx context.Context, client *http.Client, r Request, handle func(io.Reader) error) error {
	if client == nil {
		client = http.DefaultClient
	}

	var payload []byte
	contentType := ""
	switch {
	case r.Form != nil:
		payload = []byte(encodeForm(r.Form))
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = b
		contentType = "application/json"
	}

	op := func() error {
		callCtx := ctx
		if r.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(callCtx, r.Method, r.URL, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, vs := range r.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			se := &StatusError{Method: r.Method, URL: r.URL, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
			if se.Retryable() {
				return se
			}
			return backoff.Permanent(se)
		}

		if err := handle(resp.Body); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	retry := r.Retry
	if !r.retryable() {
		retry = NoRetry()
	}
	return backoff.Retry(op, retry.NewBackOff(ctx))
}
