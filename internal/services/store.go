package services

import (
	"context"
	"time"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
	repository "work-tracker.com/work-tracker/internal/repositories"
)

// Store is the persistence the services need. Every write is atomic and
// version-checked; a stale write fails with ErrConcurrentModification.
type Store interface {
	CreateTask(ctx context.Context, task *model.Task, subtasks []model.Subtask) error
	CreateSubtask(ctx context.Context, st *model.Subtask) error
	FindTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	FindSubtask(ctx context.Context, id string) (*model.Subtask, error)
	ListSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error)
	ListAllSubtasks(ctx context.Context) ([]model.Subtask, error)
	DeleteTask(ctx context.Context, id string) error

	WriteTaskStatus(ctx context.Context, task *model.Task, status constants.TaskStatus, feedback *string) error
	WriteTaskAssignees(ctx context.Context, task *model.Task, users []string) error
	WriteSubtaskStatus(ctx context.Context, st *model.Subtask, status constants.TaskStatus, feedback *string) error
	WriteSubtaskAssignee(ctx context.Context, st *model.Subtask, userID string) error
	WriteSubtaskOrder(ctx context.Context, st *model.Subtask, order int) error
	SwapSubtaskOrder(ctx context.Context, a, b *model.Subtask) error

	CreateProject(ctx context.Context, name string) (*model.Project, error)
	FindProject(ctx context.Context, id string) (*model.Project, error)
	CreateUser(ctx context.Context, name string, telegramChatID int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CountUsers(ctx context.Context, ids []string) (int, error)
	CreateWorkAssignment(ctx context.Context, wa *model.WorkAssignment) error
	ListWorkAssignments(ctx context.Context, before time.Time) ([]model.WorkAssignment, error)
}

var _ Store = (*repository.WorkItemRepository)(nil)
