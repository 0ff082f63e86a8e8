package entities

import (
	"strings"
	"time"
)

// Transcript sources
const (
	TranscriptSourceReadAI = "read_ai"
	TranscriptSourceAuxAPI = "aux_api"
)

// TranscriptLine is one speaker turn. Lines are append-only.
type TranscriptLine struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID int64     `json:"meeting_id" gorm:"not null;index"`
	Speaker   string    `json:"speaker" gorm:"type:varchar(255)"`
	Timestamp string    `json:"timestamp" gorm:"type:varchar(32)"`
	Text      string    `json:"text" gorm:"type:text"`
	Source    string    `json:"source" gorm:"type:varchar(32);default:'read_ai'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TranscriptLine) TableName() string {
	return "meeting_transcripts"
}

// JoinTranscript renders lines as "speaker: text", one per line.
func JoinTranscript(lines []TranscriptLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Speaker)
		b.WriteString(": ")
		b.WriteString(l.Text)
	}
	return b.String()
}
