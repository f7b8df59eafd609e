package errors

import "fmt"

type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// NewHTTPStatusError builds an error for a non-2xx response of a remote service.
func NewHTTPStatusError(statusCode int, message string) *HTTPError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return &HTTPError{
		Code:       statusCode,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e HTTPError) Error() string {
	return e.Message
}
