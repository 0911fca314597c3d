package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "work-tracker.com/work-tracker/internal/data_models"
)

func ValidateSubtaskRequest(r *dto.SubtaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "subtask title is required")
	}
	if r.StartDate.IsZero() || r.Deadline.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "subtask start_date and deadline are required")
	}
	return nil
}

func ValidateSwapOrderRequest(r *dto.SwapOrderRequest) error {
	if r.FirstID == "" || r.SecondID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_id and second_id are required")
	}
	return nil
}
