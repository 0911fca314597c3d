package errors

import "net/http"

var ErrNotAvailable = &Exception{
	Message:    "subtask is not available yet",
	StatusCode: http.StatusConflict,
}
