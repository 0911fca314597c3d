package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"work-tracker.com/work-tracker/internal/constants"
	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
	"work-tracker.com/work-tracker/internal/notify"
	repository "work-tracker.com/work-tracker/internal/repositories"
	"work-tracker.com/work-tracker/internal/resolver"
)

type TaskService struct {
	store Store
	announcer
}

type SubtaskInput struct {
	Title         string
	Description   string
	SequenceOrder *int
	AssignedTo    string
	StartDate     time.Time
	Deadline      time.Time
}

type CreateTaskInput struct {
	ProjectID     string
	Title         string
	Description   string
	IsSequential  bool
	AssignedUsers []string
	StartDate     time.Time
	Deadline      time.Time
	Subtasks      []SubtaskInput
}

type SubtaskDetail struct {
	model.Subtask
	ViewStatus constants.TaskStatus `json:"view_status"`
	Available  bool                 `json:"available"`
}

// TaskDetail is a task with its subtasks and projected statuses.
type TaskDetail struct {
	model.Task
	EffectiveStatus constants.TaskStatus `json:"effective_status"`
	ViewStatus      constants.TaskStatus `json:"view_status"`
	Subtasks        []SubtaskDetail      `json:"subtasks"`
}

func NewTaskService(store Store, dispatcher notify.Dispatcher) *TaskService {
	return &TaskService{
		store:     store,
		announcer: newAnnouncer(store, dispatcher),
	}
}

func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*TaskDetail, error) {
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	if err := validateDates(in.StartDate, in.Deadline); err != nil {
		return nil, err
	}

	assignees := uniqueStrings(in.AssignedUsers)
	if len(in.Subtasks) == 0 && len(assignees) != 1 {
		return nil, fmt.Errorf("%w: a task without subtasks needs exactly one assignee, got %d", apperrors.ErrInvalidAssignment, len(assignees))
	}

	subtasks := make([]model.Subtask, 0, len(in.Subtasks))
	workers := append([]string(nil), assignees...)
	for _, sin := range in.Subtasks {
		st, err := newSubtask(in.IsSequential, sin)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
		workers = append(workers, st.AssignedTo)
	}
	if err := s.checkUsers(ctx, uniqueStrings(workers)); err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:     in.ProjectID,
		Title:         in.Title,
		Description:   in.Description,
		IsSequential:  in.IsSequential,
		Status:        constants.StatusPending,
		AssignedUsers: assignees,
		StartDate:     in.StartDate,
		Deadline:      in.Deadline,
	}

	if err := s.store.CreateTask(ctx, task, subtasks); err != nil {
		return nil, err
	}

	if len(subtasks) == 0 {
		s.announcer.task(ctx, task, task.AssignedUsers, constants.ReasonCreatedAvailable)
	} else {
		s.announcer.subtasks(ctx, task, resolver.AvailableAll(task, subtasks), constants.ReasonCreatedAvailable)
	}

	return detail(task, subtasks), nil
}

// AddSubtask attaches a new subtask to an existing task and announces any
// subtask that became available because of it.
func (s *TaskService) AddSubtask(ctx context.Context, taskID string, in SubtaskInput) (*model.Subtask, error) {
	task, err := s.store.FindTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return nil, fmt.Errorf("%w: task %s", apperrors.ErrMissingParent, taskID)
		}
		return nil, err
	}

	st, err := newSubtask(task.IsSequential, in)
	if err != nil {
		return nil, err
	}
	if err := s.checkUsers(ctx, []string{st.AssignedTo}); err != nil {
		return nil, err
	}

	existing, err := s.store.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}
	before := resolver.AvailableAll(task, existing)

	st.TaskID = taskID
	if err := s.store.CreateSubtask(ctx, &st); err != nil {
		return nil, err
	}

	after := resolver.AvailableAll(task, append(existing, st))
	s.announcer.subtasks(ctx, task, resolver.NewlyAvailable(before, after), constants.ReasonCreatedAvailable)

	return &st, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*TaskDetail, error) {
	task, err := s.store.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListSubtasks(ctx, id)
	if err != nil {
		return nil, err
	}

	return detail(task, subtasks), nil
}

// ListTasks loads tasks and all subtasks with two queries and joins them in memory.
func (s *TaskService) ListTasks(ctx context.Context, projectID string) ([]TaskDetail, error) {
	tasks, err := s.store.ListTasks(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListAllSubtasks(ctx)
	if err != nil {
		return nil, err
	}

	ix := resolver.NewIndex(tasks, subtasks)
	out := make([]TaskDetail, 0, len(tasks))
	for i := range tasks {
		out = append(out, *detail(&tasks[i], ix.Subtasks(tasks[i].ID)))
	}
	return out, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, id)
}

// Available returns the subtasks of a task that userID may start now.
func (s *TaskService) Available(ctx context.Context, taskID, userID string) ([]model.Subtask, error) {
	task, err := s.store.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	available := resolver.Available(task, subtasks, userID)
	if available == nil {
		available = []model.Subtask{}
	}
	return available, nil
}

// SwapSubtaskOrder exchanges the levels of two subtasks of a sequential task.
func (s *TaskService) SwapSubtaskOrder(ctx context.Context, taskID, firstID, secondID string) ([]model.Subtask, error) {
	task, err := s.store.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsSequential {
		return nil, fmt.Errorf("%w: task %s is not sequential", apperrors.ErrInvalidOrder, taskID)
	}
	if firstID == secondID {
		return nil, fmt.Errorf("%w: cannot swap a subtask with itself", apperrors.ErrInvalidOrder)
	}

	subtasks, err := s.store.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	a, b := findSubtask(subtasks, firstID), findSubtask(subtasks, secondID)
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: both subtasks must belong to task %s", apperrors.ErrSubtaskNotFound, taskID)
	}

	before := resolver.AvailableAll(task, subtasks)
	if a.Level() != b.Level() {
		if err := s.store.SwapSubtaskOrder(ctx, a, b); err != nil {
			return nil, err
		}
	}

	after := resolver.AvailableAll(task, subtasks)
	s.announcer.subtasks(ctx, task, resolver.NewlyAvailable(before, after), constants.ReasonOrderChanged)

	return subtasks, nil
}

// ReassignSubtask moves a subtask to another user. The new assignee is told
// when the subtask is available to them right away.
func (s *TaskService) ReassignSubtask(ctx context.Context, subtaskID, userID string) (*model.Subtask, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: a subtask needs exactly one assignee", apperrors.ErrInvalidAssignment)
	}
	if err := s.checkUsers(ctx, []string{userID}); err != nil {
		return nil, err
	}

	st, err := s.store.FindSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	if st.AssignedTo == userID {
		return st, nil
	}

	task, err := s.store.FindTask(ctx, st.TaskID)
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		return nil, fmt.Errorf("%w: task %s", apperrors.ErrMissingParent, st.TaskID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.WriteSubtaskAssignee(ctx, st, userID); err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListSubtasks(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if resolver.IsAvailable(task, subtasks, st.ID) {
		s.announcer.subtasks(ctx, task, []model.Subtask{*st}, constants.ReasonCreatedAvailable)
	}

	return st, nil
}

// UpdateTaskAssignees replaces the assigned users of a task. Tasks without
// subtasks keep exactly one assignee.
func (s *TaskService) UpdateTaskAssignees(ctx context.Context, taskID string, users []string) (*model.Task, error) {
	task, err := s.store.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	assignees := uniqueStrings(users)
	if len(subtasks) == 0 && len(assignees) != 1 {
		return nil, fmt.Errorf("%w: a task without subtasks needs exactly one assignee, got %d", apperrors.ErrInvalidAssignment, len(assignees))
	}
	if err := s.checkUsers(ctx, assignees); err != nil {
		return nil, err
	}

	var added []string
	for _, u := range assignees {
		if !task.HasAssignee(u) {
			added = append(added, u)
		}
	}

	if err := s.store.WriteTaskAssignees(ctx, task, assignees); err != nil {
		return nil, err
	}

	if len(subtasks) == 0 && task.Status == constants.StatusPending {
		s.announcer.task(ctx, task, added, constants.ReasonCreatedAvailable)
	}
	return task, nil
}

func (s *TaskService) checkUsers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.store.CountUsers(ctx, ids)
	if err != nil {
		return err
	}
	if found != len(ids) {
		return fmt.Errorf("%w: unknown user in %v", apperrors.ErrInvalidAssignment, ids)
	}
	return nil
}

func newSubtask(sequential bool, in SubtaskInput) (model.Subtask, error) {
	assignee := strings.TrimSpace(in.AssignedTo)
	if assignee == "" {
		return model.Subtask{}, fmt.Errorf("%w: subtask %q needs exactly one assignee", apperrors.ErrInvalidAssignment, in.Title)
	}
	if err := validateDates(in.StartDate, in.Deadline); err != nil {
		return model.Subtask{}, err
	}

	if in.SequenceOrder == nil && sequential {
		return model.Subtask{}, fmt.Errorf("%w: subtask %q of a sequential task needs a sequence order", apperrors.ErrInvalidOrder, in.Title)
	}
	if in.SequenceOrder != nil && *in.SequenceOrder < 1 {
		return model.Subtask{}, fmt.Errorf("%w: sequence order must be positive, got %d", apperrors.ErrInvalidOrder, *in.SequenceOrder)
	}

	return model.Subtask{
		Title:         in.Title,
		Description:   in.Description,
		SequenceOrder: in.SequenceOrder,
		AssignedTo:    assignee,
		Status:        constants.StatusPending,
		StartDate:     in.StartDate,
		Deadline:      in.Deadline,
	}, nil
}

func validateDates(start, deadline time.Time) error {
	if start.After(deadline) {
		return fmt.Errorf("%w: %s > %s", apperrors.ErrInvalidDates, start.Format(time.RFC3339), deadline.Format(time.RFC3339))
	}
	return nil
}

func detail(task *model.Task, subtasks []model.Subtask) *TaskDetail {
	available := make(map[string]struct{})
	for _, st := range resolver.AvailableAll(task, subtasks) {
		available[st.ID] = struct{}{}
	}

	effective := resolver.EffectiveStatus(task, subtasks)
	d := &TaskDetail{
		Task:            *task,
		EffectiveStatus: effective,
		ViewStatus:      effective.View(),
		Subtasks:        make([]SubtaskDetail, 0, len(subtasks)),
	}
	for _, st := range subtasks {
		_, ok := available[st.ID]
		d.Subtasks = append(d.Subtasks, SubtaskDetail{Subtask: st, ViewStatus: st.Status.View(), Available: ok})
	}
	return d
}

func findSubtask(subtasks []model.Subtask, id string) *model.Subtask {
	for i := range subtasks {
		if subtasks[i].ID == id {
			return &subtasks[i]
		}
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
