package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"work-tracker.com/work-tracker/internal/constants"
	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
)

type WorkItemRepository struct {
	db *gorm.DB
}

// TaskFilter narrows ListTasks. Zero values match everything.
type TaskFilter struct {
	ProjectID string
	TaskIDs   []string
}

func NewWorkItemRepository(db *gorm.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *WorkItemRepository) Transaction(ctx context.Context, fn func(tx *WorkItemRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&WorkItemRepository{db: tx})
	})
}

func (r *WorkItemRepository) CreateTask(ctx context.Context, task *model.Task, subtasks []model.Subtask) error {
	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1
	task.StartDate = task.StartDate.UTC()
	task.Deadline = task.Deadline.UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.AssignedUsers == nil {
		task.AssignedUsers = []string{}
	}

	return r.Transaction(ctx, func(tx *WorkItemRepository) error {
		if err := tx.db.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		for i := range subtasks {
			subtasks[i].TaskID = task.ID
			if err := tx.insertSubtask(&subtasks[i], now); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateSubtask attaches st to an existing task.
func (r *WorkItemRepository) CreateSubtask(ctx context.Context, st *model.Subtask) error {
	return r.Transaction(ctx, func(tx *WorkItemRepository) error {
		var count int64
		if err := tx.db.Model(&model.Task{}).Where("id = ?", st.TaskID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: task %s", apperrors.ErrMissingParent, st.TaskID)
		}
		return tx.insertSubtask(st, time.Now().UTC())
	})
}

func (r *WorkItemRepository) insertSubtask(st *model.Subtask, now time.Time) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.Version = 1
	st.StartDate = st.StartDate.UTC()
	st.Deadline = st.Deadline.UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	if err := r.db.Create(st).Error; err != nil {
		return fmt.Errorf("create subtask: %w", err)
	}
	return nil
}

func (r *WorkItemRepository) FindTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *WorkItemRepository) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Order("created_at asc, id asc")
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.TaskIDs != nil {
		query = query.Where("id IN ?", filter.TaskIDs)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *WorkItemRepository) FindSubtask(ctx context.Context, id string) (*model.Subtask, error) {
	var st model.Subtask
	err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSubtaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *WorkItemRepository) ListSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("sequence_order asc, created_at asc, id asc").
		Find(&subtasks).Error
	return subtasks, err
}

// ListAllSubtasks loads every subtask in one query for batch computations.
func (r *WorkItemRepository) ListAllSubtasks(ctx context.Context) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.db.WithContext(ctx).
		Order("task_id asc, sequence_order asc, created_at asc, id asc").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *WorkItemRepository) WriteTaskStatus(ctx context.Context, task *model.Task, status constants.TaskStatus, feedback *string) error {
	fields := map[string]any{"status": status}
	if feedback != nil {
		fields["feedback"] = *feedback
	}
	if err := r.conditionalUpdate(ctx, &model.Task{}, task.ID, task.Version, fields); err != nil {
		return err
	}

	task.Status = status
	if feedback != nil {
		task.Feedback = *feedback
	}
	task.Version++
	return nil
}

func (r *WorkItemRepository) WriteTaskAssignees(ctx context.Context, task *model.Task, users []string) error {
	fields := map[string]any{"assigned_users": jsonStrings(users)}
	if err := r.conditionalUpdate(ctx, &model.Task{}, task.ID, task.Version, fields); err != nil {
		return err
	}

	task.AssignedUsers = users
	task.Version++
	return nil
}

func (r *WorkItemRepository) WriteSubtaskStatus(ctx context.Context, st *model.Subtask, status constants.TaskStatus, feedback *string) error {
	fields := map[string]any{"status": status}
	if feedback != nil {
		fields["feedback"] = *feedback
	}
	if err := r.conditionalUpdate(ctx, &model.Subtask{}, st.ID, st.Version, fields); err != nil {
		return err
	}

	st.Status = status
	if feedback != nil {
		st.Feedback = *feedback
	}
	st.Version++
	return nil
}

func (r *WorkItemRepository) WriteSubtaskAssignee(ctx context.Context, st *model.Subtask, userID string) error {
	if err := r.conditionalUpdate(ctx, &model.Subtask{}, st.ID, st.Version, map[string]any{"assigned_to": userID}); err != nil {
		return err
	}

	st.AssignedTo = userID
	st.Version++
	return nil
}

func (r *WorkItemRepository) WriteSubtaskOrder(ctx context.Context, st *model.Subtask, order int) error {
	if err := r.conditionalUpdate(ctx, &model.Subtask{}, st.ID, st.Version, map[string]any{"sequence_order": order}); err != nil {
		return err
	}

	st.SequenceOrder = &order
	st.Version++
	return nil
}

// SwapSubtaskOrder exchanges the levels of a and b. The first subtask is
// parked on an out-of-range level so no intermediate write ever gives both
// subtasks the same order, and the three writes commit together.
func (r *WorkItemRepository) SwapSubtaskOrder(ctx context.Context, a, b *model.Subtask) error {
	orderA, orderB := a.Level(), b.Level()
	staged := []model.Subtask{*a, *b}

	err := r.Transaction(ctx, func(tx *WorkItemRepository) error {
		if err := tx.WriteSubtaskOrder(ctx, &staged[0], constants.ReorderTempOrder); err != nil {
			return err
		}
		if err := tx.WriteSubtaskOrder(ctx, &staged[1], orderA); err != nil {
			return err
		}
		return tx.WriteSubtaskOrder(ctx, &staged[0], orderB)
	})
	if err != nil {
		return err
	}

	*a, *b = staged[0], staged[1]
	return nil
}

// DeleteTask removes a task together with its subtasks and work assignments.
func (r *WorkItemRepository) DeleteTask(ctx context.Context, id string) error {
	return r.Transaction(ctx, func(tx *WorkItemRepository) error {
		if err := tx.db.Where("task_id = ?", id).Delete(&model.WorkAssignment{}).Error; err != nil {
			return fmt.Errorf("delete work assignments: %w", err)
		}
		if err := tx.db.Where("task_id = ?", id).Delete(&model.Subtask{}).Error; err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}

		res := tx.db.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
}

func (r *WorkItemRepository) conditionalUpdate(ctx context.Context, m any, id string, version uint, fields map[string]any) error {
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(m).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentModification
	}

	return nil
}

func jsonStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}
