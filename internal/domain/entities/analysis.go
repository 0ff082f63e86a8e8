package entities

import (
	"time"

	"gorm.io/datatypes"
)

// CoachingPlan is the pre-meeting coaching message content.
type CoachingPlan struct {
	Greeting         string   `json:"greeting"`
	Scenario         string   `json:"scenario"`
	Steps            []string `json:"steps"`
	RecommendedReply string   `json:"recommended_reply"`
}

// DefaultCoachingPlan is used when the AI collaborator is unavailable.
func DefaultCoachingPlan() CoachingPlan {
	return CoachingPlan{
		Greeting:         "Hello!",
		Scenario:         "Upcoming client meeting.",
		Steps:            []string{"Review client history", "Check agenda", "Prepare questions"},
		RecommendedReply: "Ready to go.",
	}
}

// Objection is a client objection quoted from the transcript.
type Objection struct {
	Quote   string `json:"quote"`
	Context string `json:"context"`
}

// MeetingAnalysis is the post-meeting transcript analysis.
type MeetingAnalysis struct {
	Objections      []Objection `json:"objections"`
	BuyingSignals   []string    `json:"buying_signals"`
	Risks           []string    `json:"risks"`
	FollowUpActions []string    `json:"follow_up_actions"`
}

// EmptyAnalysis is the deterministic fallback analysis.
func EmptyAnalysis() MeetingAnalysis {
	return MeetingAnalysis{
		Objections:      []Objection{},
		BuyingSignals:   []string{},
		Risks:           []string{},
		FollowUpActions: []string{},
	}
}

// SalesCoaching is the post-meeting coaching report for a salesperson.
type SalesCoaching struct {
	Strengths                 []string `json:"strengths"`
	Weaknesses                []string `json:"weaknesses"`
	MissedOpportunities       []string `json:"missed_opportunities"`
	ObjectionHandlingScore    int      `json:"objection_handling_score"`
	CommunicationClarityScore int      `json:"communication_clarity_score"`
	ConfidenceScore           int      `json:"confidence_score"`
	RecommendedActions        []string `json:"recommended_actions"`
	NextMeetingTips           []string `json:"next_meeting_tips"`
}

// EmptySalesCoaching is the deterministic fallback report.
func EmptySalesCoaching() SalesCoaching {
	return SalesCoaching{
		Strengths:           []string{},
		Weaknesses:          []string{},
		MissedOpportunities: []string{},
		RecommendedActions:  []string{},
		NextMeetingTips:     []string{},
	}
}

// MeetingCoaching is a stored post-meeting coaching session.
type MeetingCoaching struct {
	ID         int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID  string         `json:"session_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	Title      string         `json:"title" gorm:"type:varchar(500)"`
	Transcript string         `json:"transcript" gorm:"type:text"`
	Source     string         `json:"source" gorm:"type:varchar(64)"`
	Coaching   datatypes.JSON `json:"coaching,omitempty" gorm:"type:jsonb"`
	Summary    string         `json:"summary,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingCoaching) TableName() string {
	return "meeting_coaching"
}
