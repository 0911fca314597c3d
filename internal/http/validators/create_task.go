package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "work-tracker.com/work-tracker/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.StartDate.IsZero() || r.Deadline.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date and deadline are required")
	}
	for i := range r.Subtasks {
		if err := ValidateSubtaskRequest(&r.Subtasks[i]); err != nil {
			return err
		}
	}
	return nil
}
