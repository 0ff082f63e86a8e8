package coaching

// RawIngestRequest carries an unstructured meeting dump
type RawIngestRequest struct {
	RawText string `json:"raw_text"`
}

// CoachingRequest asks for coaching on a stored or new session
type CoachingRequest struct {
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	Title      string `json:"title,omitempty"`
	Source     string `json:"source,omitempty"`
}

// RegisterForm is the salesperson self-registration form
type RegisterForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
	Timezone string `form:"timezone"`
}
