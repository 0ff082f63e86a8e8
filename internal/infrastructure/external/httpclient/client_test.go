package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(n uint64) RetryConfig {
	return RetryConfig{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestDoDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	var out struct {
		Echo string `json:"echo"`
	}
	err := Do(context.Background(), srv.Client(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Body:   map[string]string{"name": "jane"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "jane", out.Echo)
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{Method: http.MethodGet, URL: srv.URL, Retry: fastRetry(3)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{Method: http.MethodGet, URL: srv.URL, Retry: fastRetry(3)}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoSendsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "hello there", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Form:   map[string]string{"Body": "hello there"},
	}, nil)
	require.NoError(t, err)
}

func TestNoRetryStopsAfterFirstAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{Method: http.MethodGet, URL: srv.URL, Retry: NoRetry()}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoSendsPostOnceEvenWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Form:   map[string]string{"Body": "reminder"},
		Retry:  fastRetry(3),
	}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRetriesIdempotentPost(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	err := Do(context.Background(), srv.Client(), Request{
		Method:     http.MethodPost,
		URL:        srv.URL,
		Body:       map[string]int{"limit": 1},
		Retry:      fastRetry(3),
		Idempotent: true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
