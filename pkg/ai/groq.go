package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/johnquangdev/coachlink/pkg/config"
)

// GroqClient is a minimal client for Groq chat completions
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey, base, model = cfg.APIKey, cfg.APIURL, cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if base == "" {
		base = "https://api.groq.com"
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured
func (g *GroqClient) Enabled() bool {
	return g != nil && g.apiKey != ""
}

// ChatMessage is a single chat turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []ChatMessage   `json:"messages,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends messages and returns the assistant content
func (g *GroqClient) Chat(ctx context.Context, messages []ChatMessage, temperature float64) (string, error) {
	return g.complete(ctx, ChatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   1024,
	})
}

// CompleteJSON asks for a JSON object and decodes it into out
func (g *GroqClient) CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error {
	content, err := g.complete(ctx, ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.3,
		MaxTokens:      2048,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(content)), out); err != nil {
		return fmt.Errorf("groq returned invalid JSON: %w", err)
	}
	return nil
}

func (g *GroqClient) complete(ctx context.Context, reqBody ChatRequest) (string, error) {
	if !g.Enabled() {
		return "", fmt.Errorf("groq api key not configured")
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

// ExtractJSON trims markdown fences and leading prose around a JSON object
func ExtractJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}
