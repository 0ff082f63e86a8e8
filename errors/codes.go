package errors

// ErrorCode is the machine-readable code carried in error responses.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	ErrorCode_INTERNAL ErrorCode = iota + 1000
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_UNAUTHENTICATED
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_PROCESSING_FAILED
)

const (
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = iota + 2000
	ErrorCode_AUTH_TOKEN_EXPIRED
	ErrorCode_AUTH_PERMISSION_DENIED
	ErrorCode_WEBHOOK_INVALID_SIGNATURE
)

const (
	ErrorCode_MEETING_NOT_FOUND ErrorCode = iota + 3000
)

const (
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = iota + 6000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                   "OK",
	ErrorCode_INTERNAL:                  "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:          "INVALID_ARGUMENT",
	ErrorCode_UNAUTHENTICATED:           "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:           "INVALID_PAYLOAD",
	ErrorCode_PROCESSING_FAILED:         "PROCESSING_FAILED",
	ErrorCode_AUTH_INVALID_TOKEN:        "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:        "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_PERMISSION_DENIED:    "AUTH_PERMISSION_DENIED",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE: "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_MEETING_NOT_FOUND:         "MEETING_NOT_FOUND",
	ErrorCode_DB_CONNECTION_FAILED:      "DB_CONNECTION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
