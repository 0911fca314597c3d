package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "work-tracker.com/work-tracker/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/projects", h.CreateProject)
	e.POST("/users", h.CreateUser)
	e.GET("/users", h.ListUsers)

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.POST("/tasks/:id/status", h.TransitionTask)
	e.PUT("/tasks/:id/assignees", h.UpdateTaskAssignees)
	e.POST("/tasks/:id/subtasks", h.AddSubtask)
	e.POST("/tasks/:id/subtasks/swap", h.SwapSubtaskOrder)
	e.GET("/tasks/:id/available", h.Available)

	e.POST("/subtasks/:id/status", h.TransitionSubtask)
	e.PUT("/subtasks/:id/assignee", h.ReassignSubtask)

	e.POST("/work-assignments", h.ScheduleWork)

	e.GET("/metrics/users/:id", h.UserMetrics)
	e.GET("/metrics/team", h.TeamMetrics)
}
