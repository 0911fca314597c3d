package errors

import "net/http"

var ErrMissingParent = &Exception{
	Message:    "subtask references a nonexistent task",
	StatusCode: http.StatusUnprocessableEntity,
}
