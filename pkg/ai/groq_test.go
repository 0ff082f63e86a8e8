package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/pkg/config"
)

func TestCompleteJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Len(t, req.Messages, 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "```json\n{\"greeting\":\"Hi\"}\n```"}},
			},
		})
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", APIURL: ts.URL})

	var out struct {
		Greeting string `json:"greeting"`
	}
	require.NoError(t, client.CompleteJSON(context.Background(), "system", "prompt", &out))
	assert.Equal(t, "Hi", out.Greeting)
}

func TestChatServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", APIURL: ts.URL})
	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGroqDisabledWithoutKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	client := NewGroqClient(&config.GroqConfig{})
	assert.False(t, client.Enabled())
	_, err := client.Chat(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON("Here you go: {\"a\":1} thanks"))
	assert.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", ExtractJSON("plain"))
}
