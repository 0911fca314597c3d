package errors

import "net/http"

var ErrInvalidDates = &Exception{
	Message:    "start date must not be after deadline",
	StatusCode: http.StatusUnprocessableEntity,
}
