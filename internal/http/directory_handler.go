package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "work-tracker.com/work-tracker/internal/data_models"
	"work-tracker.com/work-tracker/internal/http/validators"
)

func (h *Handler) CreateProject(c echo.Context) error {
	var req dto.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.directoryService.CreateProject(c.Request().Context(), req.Name)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateUserRequest(&req); err != nil {
		return err
	}

	user, err := h.directoryService.CreateUser(c.Request().Context(), req.Name, req.TelegramChatID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.directoryService.ListUsers(c.Request().Context())
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(users),
		"users": users,
	})
}

func (h *Handler) ScheduleWork(c echo.Context) error {
	var req dto.WorkAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateWorkAssignmentRequest(&req); err != nil {
		return err
	}

	wa, err := h.directoryService.ScheduleWork(c.Request().Context(), req.UserID, req.TaskID, req.SubtaskID, req.Date)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, wa)
}

func (h *Handler) UserMetrics(c echo.Context) error {
	m, err := h.metricsService.GetUserMetrics(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, m)
}

func (h *Handler) TeamMetrics(c echo.Context) error {
	team, err := h.metricsService.GetTeamMetrics(c.Request().Context())
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(team),
		"users": team,
	})
}
