package courtlistener

import "fmt"

// ErrorKind is the fixed classification of verification call failures.
type ErrorKind string

const (
	// KindInvalidRequest means the request target could not be built.
	// It indicates a programming defect, not a runtime condition.
	KindInvalidRequest ErrorKind = "invalid_request_target"
	// KindInvalidResponse means the body failed to parse into the
	// expected structure.
	KindInvalidResponse ErrorKind = "invalid_response_shape"
	// KindUnauthorized means the credential is missing or invalid (401).
	KindUnauthorized ErrorKind = "unauthorized"
	// KindForbidden means the credential lacks permission (403).
	KindForbidden ErrorKind = "forbidden"
	// KindRateLimited means the service throttled the request (429).
	KindRateLimited ErrorKind = "rate_limit_exceeded"
	// KindServer is any other non-200 response.
	KindServer ErrorKind = "server_error"
	// KindTransport is a network-level failure before any response.
	KindTransport ErrorKind = "transport_failure"
)

// APIError classifies a failed verification call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int   // Set for KindServer (and the 4xx kinds)
	Cause      error // Set for KindTransport and KindInvalidResponse
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("courtlistener: %s: %v", e.Kind, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("courtlistener: %s (status %d)", e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("courtlistener: %s", e.Kind)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// classifyStatus maps a non-200 HTTP status to an APIError.
func classifyStatus(code int) *APIError {
	switch code {
	case 401:
		return &APIError{Kind: KindUnauthorized, StatusCode: code}
	case 403:
		return &APIError{Kind: KindForbidden, StatusCode: code}
	case 429:
		return &APIError{Kind: KindRateLimited, StatusCode: code}
	default:
		return &APIError{Kind: KindServer, StatusCode: code}
	}
}
