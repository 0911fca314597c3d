package errors

import "net/http"

var ErrConcurrentModification = &Exception{
	Message:    "item was modified concurrently",
	StatusCode: http.StatusConflict,
}
