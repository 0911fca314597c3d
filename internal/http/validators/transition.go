package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "work-tracker.com/work-tracker/internal/data_models"
)

func ValidateTransitionRequest(r *dto.TransitionRequest) error {
	if r.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	return nil
}
