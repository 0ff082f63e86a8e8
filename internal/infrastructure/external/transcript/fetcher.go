// Package transcript retrieves transcript text from a report URL.
package transcript

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/coachlink/pkg/ai"
)

const (
	fetchTimeout = 30 * time.Second
	maxBodyBytes = 10 << 20
)

// Transcriber turns a recording into text
type Transcriber interface {
	Enabled() bool
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}

// Fetcher downloads transcript text
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var (
	_ Fetcher     = (*HTTPFetcher)(nil)
	_ Transcriber = (*ai.AssemblyAIClient)(nil)
)

// HTTPFetcher GETs text transcripts and sends media URLs to a transcriber
type HTTPFetcher struct {
	http        *http.Client
	transcriber Transcriber
	logger      *zap.Logger
}

// NewHTTPFetcher creates a fetcher. transcriber may be nil.
func NewHTTPFetcher(httpClient *http.Client, transcriber Transcriber, logger *zap.Logger) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPFetcher{http: httpClient, transcriber: transcriber, logger: logger}
}

// Fetch returns the transcript behind url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if ai.IsMediaURL(url) && f.transcriber != nil && f.transcriber.Enabled() {
		if f.logger != nil {
			f.logger.Info("🎙️ Transcribing media transcript URL", zap.String("url", url))
		}
		return f.transcriber.Transcribe(ctx, url)
	}

	body, err := httpclient.DoBytes(ctx, f.http, httpclient.Request{
		Method:  http.MethodGet,
		URL:     url,
		Header:  http.Header{"Accept": []string{"text/plain, text/vtt, */*"}},
		Timeout: fetchTimeout,
		Retry:   httpclient.NoRetry(),
	}, maxBodyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}
	return strings.TrimPrefix(string(body), "\ufeff"), nil
}
