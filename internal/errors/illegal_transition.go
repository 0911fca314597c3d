package errors

import "net/http"

var ErrIllegalTransition = &Exception{
	Message:    "illegal status transition",
	StatusCode: http.StatusConflict,
}
