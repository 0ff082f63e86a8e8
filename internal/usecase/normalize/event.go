package normalize

import (
	"regexp"
	"time"
)

// RejectionKind classifies why a payload produced no event.
type RejectionKind string

const (
	RejectMissingMeeting RejectionKind = "missing_meeting"
	RejectNoOrganizer    RejectionKind = "no_organizer"
	RejectMalformed      RejectionKind = "malformed"

	// RejectUnregisteredOrganizer is raised by the resolver, after normalization
	RejectUnregisteredOrganizer RejectionKind = "unregistered_organizer"
)

// Rejection is a benign, acknowledged refusal to process a payload.
type Rejection struct {
	Kind   RejectionKind
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// Event is the canonical form of a calendar notification.
type Event struct {
	MeetingID        string
	Synthetic        bool
	OrganizerEmail   string
	ClientEmail      string
	ClientName       string
	ClientPhone      string
	Company          string
	CRMContactID     string
	StartTime        time.Time
	EndTime          time.Time
	StartKnown       bool
	Title            string
	BodyText         string
	Location         string
	Attendees        []string
	OnlineMeetingURL string
}

// Result holds exactly one of Event or Rejection.
type Result struct {
	Event     *Event
	Rejection *Rejection
}

// OK reports whether normalization produced an event.
func (r Result) OK() bool {
	return r.Event != nil && r.Rejection == nil
}

var meetingLinkPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9-]+\.)?(?:zoom\.us|meet\.google\.com|teams\.(?:live|microsoft)\.com|teams\.microsoft\.com/l/meetup-join)/[^\s"<>]+`)

// MeetingLink returns the online meeting URL, falling back to a link
// found in the location or body text.
func (e *Event) MeetingLink() string {
	if e.OnlineMeetingURL != "" {
		return e.OnlineMeetingURL
	}
	return FindMeetingLink(e.Location + " " + e.BodyText)
}

// FindMeetingLink returns the first video-conference link in text.
func FindMeetingLink(text string) string {
	return meetingLinkPattern.FindString(text)
}
