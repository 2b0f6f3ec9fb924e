package mailgun

import "fmt"

// FailureKind tells how a failure was produced
type FailureKind int

const (
	// FailureMessage carries a message taken from a transport or decode error
	FailureMessage FailureKind = iota
	// FailureStatus carries a non-2xx HTTP status code
	FailureStatus
)

// Failure describes why an operation did not succeed
type Failure struct {
	Kind       FailureKind
	Text       string
	StatusCode int
}

// Message resolves the failure to display text
func (f Failure) Message() string {
	if f.Kind == FailureStatus {
		return StatusMessage(f.StatusCode)
	}
	return f.Text
}

// StatusMessage returns the human-readable text for a failed response status
func StatusMessage(code int) string {
	switch code {
	case 400:
		return "Bad Request — often missing a required parameter"
	case 401:
		return "Unauthorized — no valid API key provided"
	case 402:
		return "Request Failed — parameters were valid but request failed"
	case 404:
		return "Not Found — the requested item doesn't exist"
	case 500, 502, 503, 504:
		return "Server Errors — something is wrong on the remote end"
	default:
		return fmt.Sprintf("Unexpected response status code: %d", code)
	}
}

// Result is the outcome of a single Mailgun API call. Exactly one of
// Response or the failure is meaningful; Successful is authoritative.
type Result[T any] struct {
	Successful bool
	Response   T
	failure    *Failure
}

// Success creates a successful result
func Success[T any](response T) Result[T] {
	return Result[T]{Successful: true, Response: response}
}

// Fail creates a failed result with the given message
func Fail[T any](message string) Result[T] {
	return Result[T]{failure: &Failure{Kind: FailureMessage, Text: message}}
}

// FailStatus creates a failed result for a non-2xx response status
func FailStatus[T any](code int) Result[T] {
	return Result[T]{failure: &Failure{Kind: FailureStatus, StatusCode: code}}
}

// Failure returns the failure details, or nil for a successful result
func (r Result[T]) Failure() *Failure {
	if r.Successful {
		return nil
	}
	return r.failure
}

// ErrorMessage returns the failure text, empty for a successful result
func (r Result[T]) ErrorMessage() string {
	if f := r.Failure(); f != nil {
		return f.Message()
	}
	return ""
}

// StatusCode returns the HTTP status of a status failure, 0 otherwise
func (r Result[T]) StatusCode() int {
	if f := r.Failure(); f != nil && f.Kind == FailureStatus {
		return f.StatusCode
	}
	return 0
}

// Err converts a failed result into an *APIError, nil on success
func (r Result[T]) Err() error {
	f := r.Failure()
	if f == nil {
		return nil
	}
	return &APIError{StatusCode: r.StatusCode(), Message: f.Message()}
}
