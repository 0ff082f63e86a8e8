package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/coachlink/pkg/config"
)

func TestIsMediaURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/rec/meeting.mp3", true},
		{"https://cdn.example.com/rec/meeting.MP4?sig=abc", true},
		{"https://app.read.ai/t/abc123", false},
		{"https://files.example.com/transcript.vtt", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMediaURL(tt.url))
		})
	}
}

func TestTranscribeWithoutKey(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	client := NewAssemblyAIClient(&config.AssemblyConfig{})
	assert.False(t, client.Enabled())

	_, err := client.Transcribe(context.Background(), "https://cdn.example.com/a.mp3")
	assert.Error(t, err)
}
