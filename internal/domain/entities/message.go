package entities

import "time"

// MessageDirection is relative to this service.
type MessageDirection string

const (
	MessageIncoming MessageDirection = "incoming"
	MessageOutgoing MessageDirection = "outgoing"
)

// IsValid checks if the direction is valid
func (d MessageDirection) IsValid() bool {
	return d == MessageIncoming || d == MessageOutgoing
}

// Message is an append-only log entry of a chat message.
type Message struct {
	ID        int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	ClientID  *int64           `json:"client_id,omitempty" gorm:"index"`
	MeetingID *int64           `json:"meeting_id,omitempty" gorm:"index"`
	Direction MessageDirection `json:"direction" gorm:"type:varchar(16);not null"`
	Message   string           `json:"message" gorm:"type:text"`
	Timestamp time.Time        `json:"timestamp" gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// SyncedSurvey records a survey response already pushed to the CRM.
type SyncedSurvey struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SurveyID         string    `json:"survey_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	ParticipantEmail string    `json:"participant_email" gorm:"type:varchar(255)"`
	SyncedAt         time.Time `json:"synced_at" gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (SyncedSurvey) TableName() string {
	return "synced_surveys"
}
