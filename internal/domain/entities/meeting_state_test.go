package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeetingStatusTransitions(t *testing.T) {
	tests := []struct {
		from MeetingStatus
		to   MeetingStatus
		ok   bool
	}{
		{MeetingStatusScheduled, MeetingStatusReminderSent, true},
		{MeetingStatusScheduled, MeetingStatusCompleted, true},
		{MeetingStatusScheduled, MeetingStatusFailed, true},
		{MeetingStatusReminderSent, MeetingStatusCompleted, true},
		{MeetingStatusReminderSent, MeetingStatusFailed, true},
		{MeetingStatusReminderSent, MeetingStatusScheduled, false},
		{MeetingStatusCompleted, MeetingStatusReminderSent, false},
		{MeetingStatusCompleted, MeetingStatusFailed, false},
		{MeetingStatusFailed, MeetingStatusCompleted, false},
		{MeetingStatusFailed, MeetingStatusScheduled, false},
		{MeetingStatusScheduled, MeetingStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
			err := TransitionMeeting(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidTransition))
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, MeetingStatusCompleted.IsTerminal())
	assert.True(t, MeetingStatusFailed.IsTerminal())
	assert.False(t, MeetingStatusScheduled.IsTerminal())
	assert.False(t, MeetingStatusReminderSent.IsTerminal())
	assert.False(t, MeetingStatus("archived").IsValid())
	assert.ErrorIs(t, TransitionMeeting("archived", MeetingStatusFailed), ErrInvalidStatus)
}

func TestPredecessorsOf(t *testing.T) {
	assert.ElementsMatch(t,
		[]MeetingStatus{MeetingStatusScheduled, MeetingStatusReminderSent},
		PredecessorsOf(MeetingStatusCompleted))
	assert.Equal(t, []MeetingStatus{MeetingStatusScheduled}, PredecessorsOf(MeetingStatusReminderSent))
	assert.Empty(t, PredecessorsOf(MeetingStatusScheduled))
}

func TestSurveyStatusTransitions(t *testing.T) {
	assert.True(t, SurveyStatusPending.CanTransitionTo(SurveyStatusSent))
	assert.True(t, SurveyStatusFailed.CanTransitionTo(SurveyStatusSent))
	assert.True(t, SurveyStatusFailed.CanTransitionTo(SurveyStatusFailed))
	assert.False(t, SurveyStatusSent.CanTransitionTo(SurveyStatusFailed))
	assert.False(t, SurveyStatusSent.CanTransitionTo(SurveyStatusPending))

	assert.True(t, SurveyStatusPending.NeedsTrigger())
	assert.True(t, SurveyStatusFailed.NeedsTrigger())
	assert.False(t, SurveyStatusSent.NeedsTrigger())

	assert.ElementsMatch(t, []SurveyStatus{SurveyStatusPending, SurveyStatusFailed}, SurveyPredecessorsOf(SurveyStatusSent))
}

func TestMeetingEffectiveEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	m := &Meeting{StartTime: &start}
	got, ok := m.EffectiveEnd(30 * time.Minute)
	assert.True(t, ok)
	assert.Equal(t, start.Add(30*time.Minute), got)

	m.EndTime = &end
	got, _ = m.EffectiveEnd(30 * time.Minute)
	assert.Equal(t, end, got)

	_, ok = (&Meeting{}).EffectiveEnd(30 * time.Minute)
	assert.False(t, ok)
}

func TestMergeClientField(t *testing.T) {
	assert.Equal(t, "Jane", MergeClientField("Jane", PlaceholderClientName))
	assert.Equal(t, "Jane", MergeClientField("Jane", "  "))
	assert.Equal(t, "Janet", MergeClientField("Jane", "Janet"))
	assert.Equal(t, "Acme", MergeClientField("", "Acme"))
}
