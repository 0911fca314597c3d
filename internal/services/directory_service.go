package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
)

// DirectoryService manages projects, users and work assignments.
type DirectoryService struct {
	store Store
}

func NewDirectoryService(store Store) *DirectoryService {
	return &DirectoryService{store: store}
}

func (s *DirectoryService) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	return s.store.CreateProject(ctx, strings.TrimSpace(name))
}

func (s *DirectoryService) CreateUser(ctx context.Context, name string, telegramChatID int64) (*model.User, error) {
	return s.store.CreateUser(ctx, strings.TrimSpace(name), telegramChatID)
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// ScheduleWork records that userID works on a task or subtask on date.
func (s *DirectoryService) ScheduleWork(ctx context.Context, userID, taskID string, subtaskID *string, date time.Time) (*model.WorkAssignment, error) {
	count, err := s.store.CountUsers(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: unknown user %s", apperrors.ErrInvalidAssignment, userID)
	}

	if subtaskID != nil && *subtaskID == "" {
		subtaskID = nil
	}

	wa := &model.WorkAssignment{
		UserID:    userID,
		TaskID:    taskID,
		SubtaskID: subtaskID,
		Date:      date,
	}
	if err := s.store.CreateWorkAssignment(ctx, wa); err != nil {
		return nil, err
	}
	return wa, nil
}
