package webhook

import "encoding/xml"

// CalendarResponse acknowledges a calendar notification
type CalendarResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	MeetingID int64  `json:"meeting_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
}

// TranscriptResponse acknowledges a transcript notification.
// Skipped deliveries carry Reason instead of Message.
type TranscriptResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Reason    string `json:"reason,omitempty"`
	MeetingID int64  `json:"meeting_id,omitempty"`
}

// AckResponse is the fixed acknowledgement of fire-and-forget webhooks
type AckResponse struct {
	Status string `json:"status"`
}

// TwiMLResponse is the chat gateway reply document
type TwiMLResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}
