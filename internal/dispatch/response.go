package dispatch

import (
	"fmt"
)

type ResponseType string

const (
	ResponseText ResponseType = "text_message"
	ResponseForm ResponseType = "form_data"
)

// Response is the envelope returned for every handled decision. Data is a
// string for text messages and a record for form data.
type Response struct {
	ResponseType ResponseType `json:"response_type" enum:"text_message,form_data"`
	Data         any          `json:"data"`
}

func TextMessage(msg string) *Response {
	return &Response{ResponseType: ResponseText, Data: msg}
}

func TextMessagef(format string, args ...any) *Response {
	return TextMessage(fmt.Sprintf(format, args...))
}

func FormData(v any) *Response {
	return &Response{ResponseType: ResponseForm, Data: v}
}

// ErrCodeInternal is the stable code reported for unexpected failures.
const ErrCodeInternal = "internal_error"

// InternalError wraps an unexpected fault raised while handling an action.
// Its cause is for logs only.
type InternalError struct {
	Action string
	Err    error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("dispatch: %s during %s: %v", ErrCodeInternal, e.Action, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Code() string { return ErrCodeInternal }
