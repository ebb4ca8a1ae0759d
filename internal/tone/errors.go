package tone

import (
	"fmt"
)

// Outcome is the result of a mutation call.
type Outcome string

const (
	// Success is returned only when the API answered with status 200.
	Success Outcome = "Success"
	// Failed covers every other status code and all transport errors.
	Failed Outcome = "Failed"
)

// String returns the sentinel text.
func (o Outcome) String() string {
	return string(o)
}

// OK reports whether the outcome is Success.
func (o Outcome) OK() bool {
	return o == Success
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// QueryError reports a failed query. Its message embeds the request body so
// that the calling agent can see what was attempted.
type QueryError struct {
	// Method is the RPC that failed
	Method Method

	// Body is the JSON request body that was sent (or would have been sent)
	Body string

	// Err is the underlying transport, status or decoding error
	Err error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("エラーが発生しました: %s %v", e.Body, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *QueryError) Unwrap() error {
	return e.Err
}
