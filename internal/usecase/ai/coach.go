// Package ai builds coaching, analysis and chat content on top of an LLM.
// Every operation fails open: when the model is unavailable or returns
// garbage, a deterministic fallback is returned instead of an error.
package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	pkgai "github.com/johnquangdev/coachlink/pkg/ai"
)

// Chat fallbacks
const (
	ChatUnavailableReply = "AI Service Unavailable."
	ChatErrorReply       = "Thinking..."
)

const (
	maxAnalysisChars = 100000
	maxCoachingChars = 150000
	maxChatWords     = 50
)

// Completer is the LLM surface the coach needs; *pkgai.GroqClient satisfies it.
type Completer interface {
	Enabled() bool
	Chat(ctx context.Context, messages []pkgai.ChatMessage, temperature float64) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error
}

// CoachingInput describes an upcoming meeting.
type CoachingInput struct {
	Title         string
	ClientName    string
	ClientCompany string
	DisplayTime   string
	Body          string
	Location      string
}

// Coach generates coaching content.
type Coach interface {
	CoachingPlan(ctx context.Context, in CoachingInput) entities.CoachingPlan
	ChatReply(ctx context.Context, history, message string) string
	AnalyzeTranscript(ctx context.Context, transcript string) entities.MeetingAnalysis
	SalesCoaching(ctx context.Context, transcript string) entities.SalesCoaching
}

type coach struct {
	llm    Completer
	logger *zap.Logger
}

// NewCoach creates a coach backed by llm; a nil llm always yields fallbacks.
func NewCoach(llm Completer, logger *zap.Logger) Coach {
	return &coach{llm: llm, logger: logger}
}

func (c *coach) enabled() bool {
	return c.llm != nil && c.llm.Enabled()
}

func (c *coach) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, zap.Error(err))
	}
}

const coachSystemPrompt = "You are an expert sales coach. Answer with a single JSON object and nothing else."

// CoachingPlan prepares the salesperson for an upcoming meeting.
func (c *coach) CoachingPlan(ctx context.Context, in CoachingInput) entities.CoachingPlan {
	fallback := entities.DefaultCoachingPlan()
	if !c.enabled() {
		return fallback
	}

	prompt := fmt.Sprintf(`A salesperson has an upcoming meeting.

DETAILS:
- Meeting Title: %s
- Client Name: %s
- Client Company: %s
- Time: %s
- Location: %s
- Agenda / Notes: %s

Produce a coaching plan with:
1. "greeting": a short motivating greeting.
2. "scenario": one sentence on what this meeting is likely about.
3. "steps": exactly 3 concise preparation steps.
4. "recommended_reply": a short acknowledgement the salesperson can send back.

Schema: {"greeting": "...", "scenario": "...", "steps": ["...", "...", "..."], "recommended_reply": "..."}`,
		in.Title, in.ClientName, in.ClientCompany, in.DisplayTime, in.Location, truncate(in.Body, 4000))

	var plan entities.CoachingPlan
	if err := c.llm.CompleteJSON(ctx, coachSystemPrompt, prompt, &plan); err != nil {
		c.warn("coaching plan generation failed, using fallback", err)
		return fallback
	}

	if plan.Greeting == "" {
		plan.Greeting = fallback.Greeting
	}
	if plan.Scenario == "" {
		plan.Scenario = fallback.Scenario
	}
	if len(plan.Steps) == 0 {
		plan.Steps = fallback.Steps
	}
	if plan.RecommendedReply == "" {
		plan.RecommendedReply = fallback.RecommendedReply
	}
	return plan
}

// ChatReply answers a salesperson message given meeting context.
func (c *coach) ChatReply(ctx context.Context, history, message string) string {
	if !c.enabled() {
		return ChatUnavailableReply
	}

	reply, err := c.llm.Chat(ctx, []pkgai.ChatMessage{
		{Role: "system", Content: fmt.Sprintf("You are a sales coach. Give a short, helpful coaching tip or answer in under %d words.", maxChatWords)},
		{Role: "user", Content: fmt.Sprintf("Context: %s\n\nThe salesperson just said: %q", history, message)},
	}, 0.7)
	if err != nil {
		c.warn("chat reply failed", err)
		return ChatErrorReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ChatErrorReply
	}
	return reply
}

// AnalyzeTranscript extracts objections, signals, risks and next steps.
func (c *coach) AnalyzeTranscript(ctx context.Context, transcript string) entities.MeetingAnalysis {
	if !c.enabled() || strings.TrimSpace(transcript) == "" {
		return entities.EmptyAnalysis()
	}

	prompt := fmt.Sprintf(`Analyze the following meeting transcript.

TRANSCRIPT:
%s

Return:
1. "objections": client objections, quoting the exact transcript line.
2. "buying_signals": positive signals or interest from the client.
3. "risks": risks to the deal (competitors, budget, timeline, ...).
4. "follow_up_actions": concrete next steps for the salesperson.

Schema: {"objections": [{"quote": "...", "context": "..."}], "buying_signals": ["..."], "risks": ["..."], "follow_up_actions": ["..."]}`,
		truncate(transcript, maxAnalysisChars))

	analysis := entities.EmptyAnalysis()
	if err := c.llm.CompleteJSON(ctx, coachSystemPrompt, prompt, &analysis); err != nil {
		c.warn("transcript analysis failed, using empty analysis", err)
		return entities.EmptyAnalysis()
	}
	return normalizeAnalysis(analysis)
}

// SalesCoaching scores the salesperson's performance in a transcript.
func (c *coach) SalesCoaching(ctx context.Context, transcript string) entities.SalesCoaching {
	if !c.enabled() || strings.TrimSpace(transcript) == "" {
		return entities.EmptySalesCoaching()
	}

	prompt := fmt.Sprintf(`You are given a full verbatim meeting transcript.
Analyze the conversation and give honest, specific, actionable coaching feedback.

TRANSCRIPT:
%s

Schema:
{
  "strengths": [string],
  "weaknesses": [string],
  "missed_opportunities": [string],
  "objection_handling_score": 1-5,
  "communication_clarity_score": 1-5,
  "confidence_score": 1-5,
  "recommended_actions": [string],
  "next_meeting_tips": [string]
}`, truncate(transcript, maxCoachingChars))

	report := entities.EmptySalesCoaching()
	if err := c.llm.CompleteJSON(ctx, coachSystemPrompt, prompt, &report); err != nil {
		c.warn("sales coaching failed, using empty report", err)
		return entities.EmptySalesCoaching()
	}
	report.ObjectionHandlingScore = clampScore(report.ObjectionHandlingScore)
	report.CommunicationClarityScore = clampScore(report.CommunicationClarityScore)
	report.ConfidenceScore = clampScore(report.ConfidenceScore)
	return normalizeCoaching(report)
}

func normalizeAnalysis(a entities.MeetingAnalysis) entities.MeetingAnalysis {
	if a.Objections == nil {
		a.Objections = []entities.Objection{}
	}
	if a.BuyingSignals == nil {
		a.BuyingSignals = []string{}
	}
	if a.Risks == nil {
		a.Risks = []string{}
	}
	if a.FollowUpActions == nil {
		a.FollowUpActions = []string{}
	}
	return a
}

func normalizeCoaching(r entities.SalesCoaching) entities.SalesCoaching {
	for _, list := range []*[]string{&r.Strengths, &r.Weaknesses, &r.MissedOpportunities, &r.RecommendedActions, &r.NextMeetingTips} {
		if *list == nil {
			*list = []string{}
		}
	}
	return r
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 5:
		return 5
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
