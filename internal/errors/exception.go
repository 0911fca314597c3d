package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text safe to show to API callers. Wrapped
// exceptions keep their added context; anything else is reported generically.
func PublicMessage(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return err.Error()
	}
	return "internal server error"
}
