package coaching

import "github.com/johnquangdev/coachlink/internal/domain/entities"

// ExtractedData describes what raw ingest pulled out of the dump
type ExtractedData struct {
	SummaryLength    int `json:"summary_length"`
	TranscriptLength int `json:"transcript_length"`
}

// RawIngestResponse is returned by raw ingest
type RawIngestResponse struct {
	Status        string        `json:"status"`
	SessionID     string        `json:"session_id"`
	Notified      bool          `json:"notified"`
	ExtractedData ExtractedData `json:"extracted_data"`
}

// CoachingResponse is returned by post-meeting coaching
type CoachingResponse struct {
	Success   bool                   `json:"success"`
	SessionID string                 `json:"session_id"`
	Coaching  entities.SalesCoaching `json:"coaching"`
}

