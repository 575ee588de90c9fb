package ghttp

import "github.com/pkg/errors"

const (
	// StatusTransport marks failures that happened before a response arrived.
	StatusTransport = -1
	// StatusDecode marks responses whose body could not be decoded.
	StatusDecode = -2
)

type Error struct {
	StatusCode   int
	ResponseBody []byte
	cause        error
}

func NewError(statusCode int, body []byte, cause error) *Error {
	return &Error{
		StatusCode:   statusCode,
		ResponseBody: body,
		cause:        cause,
	}
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Error() string {
	if e.ResponseBody != nil {
		return e.cause.Error() + ": " + string(e.ResponseBody)
	}

	return e.cause.Error()
}

func IsDecodeError(err error) bool {
	var httpErr *Error
	return errors.As(err, &httpErr) && httpErr.StatusCode == StatusDecode
}

func StatusCode(err error) int {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
