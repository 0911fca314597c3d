package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "unknown status",
	StatusCode: http.StatusBadRequest,
}
