package errors

import "net/http"

var ErrInvalidAssignment = &Exception{
	Message:    "invalid assignment",
	StatusCode: http.StatusUnprocessableEntity,
}
