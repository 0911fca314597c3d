package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "work-tracker.com/work-tracker/internal/data_models"
)

func ValidateCreateProjectRequest(r *dto.CreateProjectRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func ValidateCreateUserRequest(r *dto.CreateUserRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func ValidateWorkAssignmentRequest(r *dto.WorkAssignmentRequest) error {
	if r.UserID == "" || r.TaskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and task_id are required")
	}
	if r.Date.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	return nil
}
