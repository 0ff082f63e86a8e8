package presenter

import (
	"github.com/johnquangdev/coachlink/internal/adapter/dto/admin"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *admin.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &admin.MeetingResponse{
		ID:               m.ID,
		OutlookEventID:   m.OutlookEventID,
		SyntheticID:      m.IsSynthetic(),
		Title:            m.Title,
		Status:           string(m.Status),
		SurveyStatus:     string(m.SurveyStatus),
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		OrganizerEmail:   m.OrganizerEmail,
		SalespersonPhone: m.SalespersonPhone,
		Location:         m.Location,
		OnlineMeetingURL: m.OnlineMeetingURL,
		Attendees:        []string(m.Attendees),
		Summary:          m.Summary,
		ReportURL:        m.ReadAIURL,
		Analysis:         m.Analysis,
		BotScheduled:     m.HasBotToken(),
		CoachingSentAt:   m.CoachingSentAt,
		TranscriptAt:     m.TranscriptAt,
		FeedbackAt:       m.FeedbackAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	// Include client if loaded
	if m.Client != nil {
		response.Client = &admin.ClientResponse{
			ID:      m.Client.ID,
			Email:   m.Client.Email,
			Name:    m.Client.Name,
			Company: m.Client.Company,
		}
	}

	return response
}

// ToMeetingListResponse converts a page of meetings to MeetingListResponse
func ToMeetingListResponse(meetings []entities.Meeting, total int64, limit, offset int) *admin.MeetingListResponse {
	return &admin.MeetingListResponse{
		Meetings: ToMeetingResponses(meetings),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
}

// ToMeetingDetailResponse converts a meeting with transcript
func ToMeetingDetailResponse(d *meeting.Detail) *admin.MeetingDetailResponse {
	if d == nil || d.Meeting == nil {
		return nil
	}

	lines := make([]admin.TranscriptLineResponse, len(d.Transcript))
	for i, l := range d.Transcript {
		lines[i] = admin.TranscriptLineResponse{
			Speaker:   l.Speaker,
			Timestamp: l.Timestamp,
			Text:      l.Text,
			Source:    l.Source,
		}
	}

	return &admin.MeetingDetailResponse{
		MeetingResponse: *ToMeetingResponse(d.Meeting),
		Transcript:      lines,
	}
}

// ToMeetingResponses converts a meeting slice
func ToMeetingResponses(meetings []entities.Meeting) []*admin.MeetingResponse {
	items := make([]*admin.MeetingResponse, len(meetings))
	for i := range meetings {
		items[i] = ToMeetingResponse(&meetings[i])
	}
	return items
}
