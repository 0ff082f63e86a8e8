package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	pkgai "github.com/johnquangdev/coachlink/pkg/ai"
)

type fakeLLM struct {
	enabled  bool
	jsonBody string
	chat     string
	err      error
	prompts  []string
}

func (f *fakeLLM) Enabled() bool { return f.enabled }

func (f *fakeLLM) Chat(_ context.Context, msgs []pkgai.ChatMessage, _ float64) (string, error) {
	for _, m := range msgs {
		f.prompts = append(f.prompts, m.Content)
	}
	return f.chat, f.err
}

func (f *fakeLLM) CompleteJSON(_ context.Context, _ string, prompt string, out interface{}) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.jsonBody), out)
}

func TestCoachingPlanFallbacks(t *testing.T) {
	ctx := context.Background()

	disabled := NewCoach(&fakeLLM{}, nil)
	assert.Equal(t, entities.DefaultCoachingPlan(), disabled.CoachingPlan(ctx, CoachingInput{Title: "Demo"}))

	failing := NewCoach(&fakeLLM{enabled: true, err: errors.New("groq returned status 503")}, nil)
	assert.Equal(t, entities.DefaultCoachingPlan(), failing.CoachingPlan(ctx, CoachingInput{Title: "Demo"}))

	assert.Equal(t, entities.DefaultCoachingPlan(), NewCoach(nil, nil).CoachingPlan(ctx, CoachingInput{}))
}

func TestCoachingPlanFillsMissingFields(t *testing.T) {
	llm := &fakeLLM{enabled: true, jsonBody: `{"greeting": "Go get them!", "steps": []}`}
	plan := NewCoach(llm, nil).CoachingPlan(context.Background(), CoachingInput{Title: "Renewal", ClientName: "Jane"})

	assert.Equal(t, "Go get them!", plan.Greeting)
	assert.Equal(t, entities.DefaultCoachingPlan().Scenario, plan.Scenario)
	assert.Equal(t, entities.DefaultCoachingPlan().Steps, plan.Steps)
	assert.Contains(t, llm.prompts[0], "Renewal")
	assert.Contains(t, llm.prompts[0], "Jane")
}

func TestChatReply(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ChatUnavailableReply, NewCoach(&fakeLLM{}, nil).ChatReply(ctx, "ctx", "hi"))
	assert.Equal(t, ChatErrorReply, NewCoach(&fakeLLM{enabled: true, err: errors.New("timeout")}, nil).ChatReply(ctx, "ctx", "hi"))
	assert.Equal(t, "Ask about budget.", NewCoach(&fakeLLM{enabled: true, chat: " Ask about budget. "}, nil).ChatReply(ctx, "ctx", "hi"))
}

func TestAnalyzeTranscript(t *testing.T) {
	ctx := context.Background()

	empty := NewCoach(&fakeLLM{enabled: true}, nil).AnalyzeTranscript(ctx, "   ")
	assert.Equal(t, entities.EmptyAnalysis(), empty)

	llm := &fakeLLM{enabled: true, jsonBody: `{"objections": [{"quote": "too pricey", "context": "pricing"}], "risks": ["budget"]}`}
	got := NewCoach(llm, nil).AnalyzeTranscript(ctx, "Client: too pricey")
	assert.Len(t, got.Objections, 1)
	assert.Equal(t, []string{"budget"}, got.Risks)
	assert.NotNil(t, got.BuyingSignals)
	assert.NotNil(t, got.FollowUpActions)
}

func TestSalesCoachingClampsScores(t *testing.T) {
	llm := &fakeLLM{enabled: true, jsonBody: `{"strengths": ["rapport"], "objection_handling_score": 9, "confidence_score": -2}`}
	got := NewCoach(llm, nil).SalesCoaching(context.Background(), "Rep: hello")

	assert.Equal(t, []string{"rapport"}, got.Strengths)
	assert.Equal(t, 5, got.ObjectionHandlingScore)
	assert.Equal(t, 0, got.ConfidenceScore)
	assert.NotNil(t, got.Weaknesses)

	failing := NewCoach(&fakeLLM{enabled: true, err: errors.New("bad json")}, nil)
	assert.Equal(t, entities.EmptySalesCoaching(), failing.SalesCoaching(context.Background(), "Rep: hello"))
}
