package entities

import "fmt"

// MeetingStatus is the lifecycle position of a meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled    MeetingStatus = "scheduled"
	MeetingStatusReminderSent MeetingStatus = "reminder_sent"
	MeetingStatusCompleted    MeetingStatus = "completed"
	MeetingStatusFailed       MeetingStatus = "failed"
)

// SurveyStatus tracks the survey trigger independently of MeetingStatus.
type SurveyStatus string

const (
	SurveyStatusPending SurveyStatus = "pending"
	SurveyStatusSent    SurveyStatus = "sent"
	SurveyStatusFailed  SurveyStatus = "failed"
)

var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingStatusScheduled:    {MeetingStatusReminderSent, MeetingStatusCompleted, MeetingStatusFailed},
	MeetingStatusReminderSent: {MeetingStatusCompleted, MeetingStatusFailed},
	MeetingStatusCompleted:    nil,
	MeetingStatusFailed:       nil,
}

var surveyTransitions = map[SurveyStatus][]SurveyStatus{
	SurveyStatusPending: {SurveyStatusSent, SurveyStatusFailed},
	SurveyStatusFailed:  {SurveyStatusSent, SurveyStatusFailed},
	SurveyStatusSent:    nil,
}

// ActiveMeetingStatuses are the statuses the scheduler still acts on.
var ActiveMeetingStatuses = []MeetingStatus{MeetingStatusScheduled, MeetingStatusReminderSent}

// IsValid checks if the meeting status is valid
func (s MeetingStatus) IsValid() bool {
	_, ok := meetingTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed.
func (s MeetingStatus) IsTerminal() bool {
	return s.IsValid() && len(meetingTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is a forward edge.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	for _, allowed := range meetingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PredecessorsOf lists every status that may move directly to target.
func PredecessorsOf(target MeetingStatus) []MeetingStatus {
	var out []MeetingStatus
	for _, from := range []MeetingStatus{MeetingStatusScheduled, MeetingStatusReminderSent, MeetingStatusCompleted, MeetingStatusFailed} {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

// TransitionMeeting validates from -> to.
func TransitionMeeting(from, to MeetingStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return ErrInvalidStatus
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsValid checks if the survey status is valid
func (s SurveyStatus) IsValid() bool {
	_, ok := surveyTransitions[s]
	return ok
}

// CanTransitionTo reports whether s -> next is allowed.
func (s SurveyStatus) CanTransitionTo(next SurveyStatus) bool {
	for _, allowed := range surveyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NeedsTrigger reports whether the survey still has to be sent.
func (s SurveyStatus) NeedsTrigger() bool {
	return s == SurveyStatusPending || s == SurveyStatusFailed
}

// SurveyPredecessorsOf lists every survey status that may move to target.
func SurveyPredecessorsOf(target SurveyStatus) []SurveyStatus {
	var out []SurveyStatus
	for _, from := range []SurveyStatus{SurveyStatusPending, SurveyStatusSent, SurveyStatusFailed} {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}
