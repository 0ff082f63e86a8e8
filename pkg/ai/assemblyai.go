package ai

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/coachlink/pkg/config"
)

var mediaExtensions = map[string]bool{
	".mp3": true, ".mp4": true, ".m4a": true, ".wav": true,
	".webm": true, ".ogg": true, ".flac": true, ".mov": true,
}

// AssemblyAIClient transcribes recordings with the official SDK
type AssemblyAIClient struct {
	apiKey string
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{
		apiKey: apiKey,
		client: aai.NewClient(apiKey),
	}
}

// Enabled reports whether an API key is configured
func (c *AssemblyAIClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// IsMediaURL reports whether the URL points at an audio or video file
func IsMediaURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return mediaExtensions[strings.ToLower(path.Ext(u.Path))]
}

// Transcribe submits the media URL and waits for the transcript.
// The result is rendered as "Speaker X: text" lines when speaker labels are available.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("assemblyai api key not configured")
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, mediaURL, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
	case aai.TranscriptStatusError:
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai error: %s", msg)
	default:
		return "", fmt.Errorf("assemblyai transcript not ready: %s", transcript.Status)
	}

	if len(transcript.Utterances) > 0 {
		lines := make([]string, 0, len(transcript.Utterances))
		for _, u := range transcript.Utterances {
			lines = append(lines, fmt.Sprintf("Speaker %s: %s", deref(u.Speaker), deref(u.Text)))
		}
		return strings.Join(lines, "\n"), nil
	}
	return deref(transcript.Text), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
