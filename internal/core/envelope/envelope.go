// Package envelope defines the uniform result shape returned by every service
// call. Callers check Success instead of relying on Go errors for expected
// failures such as not-found or validation.
package envelope

import "time"

// DefaultFailureMessage is used when a failure carries no usable error text.
const DefaultFailureMessage = "an unexpected error occurred, please try again later"

// Envelope wraps the outcome of one backend operation.
type Envelope[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	Data      T         `json:"data"`
	Raw       error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a success envelope carrying data.
func OK[T any](message string, data T, context string) Envelope[T] {
	return Envelope[T]{
		Success:   true,
		Message:   message,
		Context:   context,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Fail builds a failure envelope. The caught error travels under Raw and its
// text becomes the message.
func Fail[T any](err error, context string) Envelope[T] {
	msg := DefaultFailureMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope[T]{
		Success:   false,
		Message:   msg,
		Context:   context,
		Raw:       err,
		Timestamp: time.Now().UTC(),
	}
}

// Err returns the raw error of a failure envelope, or nil on success.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	return e.Raw
}

// Forward re-types a failure envelope so it can be returned from an operation
// with a different payload type.
func Forward[T, U any](e Envelope[U]) Envelope[T] {
	return Envelope[T]{
		Success:   e.Success,
		Message:   e.Message,
		Context:   e.Context,
		Raw:       e.Raw,
		Timestamp: e.Timestamp,
	}
}
