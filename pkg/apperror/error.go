package apperror

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest covers malformed input: bad dates, out-of-range ratings,
// missing required fields.
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// InvalidState signals a lifecycle transition whose guard failed, e.g.
// scheduling an interview for an application that is not Pending.
func InvalidState(message string) *AppError {
	return New(http.StatusUnprocessableEntity, message, nil)
}

// Conflict signals that a concurrent transition won the race; the caller
// may reload and retry.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

// ExternalProvider wraps a calendar/payment provider failure. The provider
// payload stays in Err for logs and is never sent to the client.
func ExternalProvider(message string, err error) *AppError {
	return New(http.StatusBadGateway, message, err)
}

// Credential signals a missing or unrefreshable external credential.
func Credential(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
