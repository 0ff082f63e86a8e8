package webhook

import (
	"bytes"
	"encoding/json"
)

// TranscriptReadyRequest is the transcript-ready notification
type TranscriptReadyRequest struct {
	MeetingTitle  string `json:"meeting_title" validate:"required,notblank"`
	MeetingTime   string `json:"meeting_time" validate:"required,notblank"`
	TranscriptURL string `json:"transcript_url" validate:"required,notblank"`
	Source        string `json:"source,omitempty"`
}

// SummaryMeeting is the meeting block of a summary notification
type SummaryMeeting struct {
	StartTime string `json:"start_time"`
}

// SummaryRequest is the summary-ready notification
type SummaryRequest struct {
	Meeting   SummaryMeeting `json:"meeting"`
	Summary   SummaryText    `json:"summary"`
	ReportURL string         `json:"report_url"`
}

// SummaryText accepts either a plain string or an object with a text field
type SummaryText string

// UnmarshalJSON implements json.Unmarshaler
func (s *SummaryText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = SummaryText(text)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = SummaryText(obj.Text)
	return nil
}

// InboundMessageForm is the chat gateway's inbound form post
type InboundMessageForm struct {
	From string `form:"From"`
	Body string `form:"Body"`
}
