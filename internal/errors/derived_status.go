package errors

import "net/http"

var ErrDerivedStatus = &Exception{
	Message:    "task status is derived from its subtasks",
	StatusCode: http.StatusConflict,
}
