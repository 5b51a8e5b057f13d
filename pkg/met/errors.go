package met

import "fmt"

// ErrorType classifies API and download failures.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeTooSmall    ErrorType = "too_small"
	ErrorTypeExhausted   ErrorType = "retries_exhausted"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a collection API error.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("met %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// IsRetryable reports whether an error type is worth another attempt.
func IsRetryable(t ErrorType) bool {
	switch t {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTooSmall:
		return true
	default:
		return false
	}
}
