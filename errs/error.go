package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Application error codes. They map roughly onto HTTP status codes but exist
// so the crud and auth layers never have to know about HTTP at all.
const (
	ECONFLICT        = "conflict"
	EFORBIDDEN       = "forbidden"
	EINTERNAL        = "internal"
	EINVALID         = "invalid"
	ENOTFOUND        = "not_found"
	EUNAUTHENTICATED = "unauthenticated"
	EUNAVAILABLE     = "unavailable"
)

// Error is an application error. Code is machine-readable, Message is
// human-readable and safe to show to the client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("inkwell error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an Error with the given code and a formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of any error. Non-application errors are
// considered internal, since we don't know anything safe to say about them.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of any error. Messages of non-application
// errors are masked, so no internal detail ever crosses the boundary.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error has occurred."
}

// statusCodes maps application error codes to HTTP status codes.
var statusCodes = map[string]int{
	ECONFLICT:        http.StatusConflict,
	EFORBIDDEN:       http.StatusForbidden,
	EINTERNAL:        http.StatusInternalServerError,
	EINVALID:         http.StatusBadRequest,
	ENOTFOUND:        http.StatusNotFound,
	EUNAUTHENTICATED: http.StatusUnauthorized,
	EUNAVAILABLE:     http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status code for an application error code.
func StatusCode(code string) int {
	if status, ok := statusCodes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorResponse is the json body returned for any failed request.
type errorResponse struct {
	Error Error `json:"error"`
}

// ReturnError writes a structured error response to the client. Internal
// errors are additionally logged, since their real cause is masked.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(code))
	json.NewEncoder(w).Encode(errorResponse{Error: Error{Code: code, Message: message}})
}

// LogError logs an error together with the request it occurred on.
func LogError(r *http.Request, err error) {
	slog.Error("http error",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
}
