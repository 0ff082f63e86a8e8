package admin

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

// ListMissingBotRequest represents query parameters for the missing-bot report
type ListMissingBotRequest struct {
	Limit int `query:"limit" validate:"min=0,max=200"`
}
