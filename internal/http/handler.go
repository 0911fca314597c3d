package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"work-tracker.com/work-tracker/internal/constants"
	dto "work-tracker.com/work-tracker/internal/data_models"
	apperrors "work-tracker.com/work-tracker/internal/errors"
	"work-tracker.com/work-tracker/internal/http/validators"
	"work-tracker.com/work-tracker/internal/services"
)

type Handler struct {
	taskService      *services.TaskService
	statusService    *services.StatusService
	metricsService   *services.MetricsService
	directoryService *services.DirectoryService
}

func NewHandler(
	taskService *services.TaskService,
	statusService *services.StatusService,
	metricsService *services.MetricsService,
	directoryService *services.DirectoryService,
) *Handler {
	return &Handler{
		taskService:      taskService,
		statusService:    statusService,
		metricsService:   metricsService,
		directoryService: directoryService,
	}
}

// fail turns a service error into the HTTP error echo renders.
func fail(err error) error {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		log.Printf("[http] request failed: %v", err)
	}
	return echo.NewHTTPError(code, apperrors.PublicMessage(err))
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}
	return nil
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	in := services.CreateTaskInput{
		ProjectID:     req.ProjectID,
		Title:         req.Title,
		Description:   req.Description,
		IsSequential:  req.IsSequential,
		AssignedUsers: req.AssignedUsers,
		StartDate:     req.StartDate,
		Deadline:      req.Deadline,
	}
	for _, st := range req.Subtasks {
		in.Subtasks = append(in.Subtasks, subtaskInput(st))
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context(), c.QueryParam("project_id"))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return fail(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddSubtask(c echo.Context) error {
	var req dto.SubtaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateSubtaskRequest(&req); err != nil {
		return err
	}

	st, err := h.taskService.AddSubtask(c.Request().Context(), c.Param("id"), subtaskInput(req))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) SwapSubtaskOrder(c echo.Context) error {
	var req dto.SwapOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateSwapOrderRequest(&req); err != nil {
		return err
	}

	subtasks, err := h.taskService.SwapSubtaskOrder(c.Request().Context(), c.Param("id"), req.FirstID, req.SecondID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, subtasks)
}

func (h *Handler) Available(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	subtasks, err := h.taskService.Available(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, subtasks)
}

func (h *Handler) UpdateTaskAssignees(c echo.Context) error {
	var req dto.AssigneesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTaskAssignees(c.Request().Context(), c.Param("id"), req.AssignedUsers)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ReassignSubtask(c echo.Context) error {
	var req dto.ReassignRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	st, err := h.taskService.ReassignSubtask(c.Request().Context(), c.Param("id"), req.AssignedTo)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, st)
}

func (h *Handler) TransitionTask(c echo.Context) error {
	tr, err := transition(c)
	if err != nil {
		return err
	}

	task, err := h.statusService.TransitionTask(c.Request().Context(), c.Param("id"), tr)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) TransitionSubtask(c echo.Context) error {
	tr, err := transition(c)
	if err != nil {
		return err
	}

	st, err := h.statusService.TransitionSubtask(c.Request().Context(), c.Param("id"), tr)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, st)
}

func transition(c echo.Context) (services.Transition, error) {
	var req dto.TransitionRequest
	if err := bind(c, &req); err != nil {
		return services.Transition{}, err
	}
	if err := validators.ValidateTransitionRequest(&req); err != nil {
		return services.Transition{}, err
	}

	return services.Transition{
		To:      constants.TaskStatus(req.Status),
		ActorID: req.ActorID,
		Reason:  req.Reason,
	}, nil
}

func subtaskInput(r dto.SubtaskRequest) services.SubtaskInput {
	return services.SubtaskInput{
		Title:         r.Title,
		Description:   r.Description,
		SequenceOrder: r.SequenceOrder,
		AssignedTo:    r.AssignedTo,
		StartDate:     r.StartDate,
		Deadline:      r.Deadline,
	}
}
