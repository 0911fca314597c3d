package errors

import "net/http"

var ErrInvalidOrder = &Exception{
	Message:    "invalid sequence order",
	StatusCode: http.StatusUnprocessableEntity,
}
