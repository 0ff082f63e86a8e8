package common

// ErrorResponse is the bare error body the webhook and ingestion endpoints
// return on malformed input; integrations match on the error string
type ErrorResponse struct {
	Error string `json:"error"`
}
