package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
)

func (r *WorkItemRepository) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	project := &model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (r *WorkItemRepository) FindProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *WorkItemRepository) CreateUser(ctx context.Context, name string, telegramChatID int64) (*model.User, error) {
	user := &model.User{
		ID:             uuid.NewString(),
		Name:           name,
		TelegramChatID: telegramChatID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *WorkItemRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error
	return users, err
}

// FindUsers returns the users with the given ids; unknown ids are ignored.
func (r *WorkItemRepository) FindUsers(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&users).Error
	return users, err
}

// CountUsers returns how many of ids exist.
func (r *WorkItemRepository) CountUsers(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id IN ?", ids).Count(&count).Error
	return int(count), err
}

func (r *WorkItemRepository) CreateWorkAssignment(ctx context.Context, wa *model.WorkAssignment) error {
	return r.Transaction(ctx, func(tx *WorkItemRepository) error {
		if _, err := tx.FindTask(ctx, wa.TaskID); err != nil {
			return err
		}

		if wa.SubtaskID != nil {
			st, err := tx.FindSubtask(ctx, *wa.SubtaskID)
			if err != nil {
				return err
			}
			if st.TaskID != wa.TaskID {
				return fmt.Errorf("%w: subtask %s belongs to task %s", apperrors.ErrMissingParent, st.ID, st.TaskID)
			}
		}

		wa.ID = uuid.NewString()
		wa.Date = wa.Date.UTC()
		wa.CreatedAt = time.Now().UTC()
		return tx.db.Create(wa).Error
	})
}

// ListWorkAssignments returns assignments dated strictly before the given
// instant. Dates are stored in UTC, so the text comparison sqlite performs
// orders them chronologically.
func (r *WorkItemRepository) ListWorkAssignments(ctx context.Context, before time.Time) ([]model.WorkAssignment, error) {
	var assignments []model.WorkAssignment
	err := r.db.WithContext(ctx).
		Where("date < ?", before.UTC()).
		Order("date asc, id asc").
		Find(&assignments).Error
	return assignments, err
}
