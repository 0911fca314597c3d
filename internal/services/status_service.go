package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"work-tracker.com/work-tracker/internal/constants"
	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
	"work-tracker.com/work-tracker/internal/notify"
	"work-tracker.com/work-tracker/internal/resolver"
)

// StatusService applies status transitions to subtasks and standalone tasks.
type StatusService struct {
	store Store
	now   func() time.Time
	announcer
}

// Transition is a requested status change.
type Transition struct {
	To constants.TaskStatus
	// ActorID is recorded in the review feedback.
	ActorID string
	// Reason is the reviewer's comment on approval, or why the item was returned.
	Reason string
}

func NewStatusService(store Store, dispatcher notify.Dispatcher, now func() time.Time) *StatusService {
	if now == nil {
		now = time.Now
	}
	return &StatusService{
		store:     store,
		now:       now,
		announcer: newAnnouncer(store, dispatcher),
	}
}

// TransitionSubtask moves a subtask along the state machine. Starting
// requires the subtask to be available; approving may unlock the next level,
// whose assignees are then notified.
func (s *StatusService) TransitionSubtask(ctx context.Context, subtaskID string, tr Transition) (*model.Subtask, error) {
	to := tr.To.Normalize()
	if !to.IsValidForSubtask() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, tr.To)
	}

	st, err := s.store.FindSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}

	task, err := s.store.FindTask(ctx, st.TaskID)
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		return nil, fmt.Errorf("%w: subtask %s points at task %s", apperrors.ErrMissingParent, st.ID, st.TaskID)
	}
	if err != nil {
		return nil, err
	}

	siblings, err := s.store.ListSubtasks(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	current := findSubtask(siblings, st.ID)
	if current == nil {
		return nil, apperrors.ErrConcurrentModification
	}

	from := current.Status
	if !constants.CanSubtaskTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrIllegalTransition, from, to)
	}
	if from == constants.StatusPending && to == constants.StatusInProgress && !resolver.IsAvailable(task, siblings, current.ID) {
		return nil, fmt.Errorf("%w: subtask %s waits for an earlier level", apperrors.ErrNotAvailable, current.ID)
	}

	feedback, err := s.feedback(to, tr)
	if err != nil {
		return nil, err
	}

	if err := s.store.WriteSubtaskStatus(ctx, current, to, feedback); err != nil {
		return nil, err
	}
	log.Printf("[status] subtask %s: %s -> %s", current.ID, from, to)

	if to == constants.StatusApproved {
		s.announceUnlocked(ctx, task, current.ID, from, siblings)
	}

	out := *current
	return &out, nil
}

// TransitionTask changes the status of a task without subtasks. Tasks with
// subtasks derive their status and reject direct writes.
func (s *StatusService) TransitionTask(ctx context.Context, taskID string, tr Transition) (*model.Task, error) {
	to := tr.To.Normalize()
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, tr.To)
	}

	task, err := s.store.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.store.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(subtasks) > 0 {
		return nil, fmt.Errorf("%w: task %s has %d subtasks", apperrors.ErrDerivedStatus, taskID, len(subtasks))
	}

	from := task.Status
	if !constants.CanTaskTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrIllegalTransition, from, to)
	}

	feedback, err := s.feedback(to, tr)
	if err != nil {
		return nil, err
	}

	if err := s.store.WriteTaskStatus(ctx, task, to, feedback); err != nil {
		return nil, err
	}
	log.Printf("[status] task %s: %s -> %s", task.ID, from, to)

	return task, nil
}

// announceUnlocked diffs availability on a fresh read taken after the write,
// with this subtask put back to its previous status for the "before" side.
// A concurrent approval in the same level is then visible to at least the
// later writer.
func (s *StatusService) announceUnlocked(ctx context.Context, task *model.Task, subtaskID string, from constants.TaskStatus, stale []model.Subtask) {
	after, err := s.store.ListSubtasks(ctx, task.ID)
	if err != nil {
		log.Printf("[status] re-reading subtasks of task %s failed, using pre-write view: %v", task.ID, err)
		after = stale
	}

	before := append([]model.Subtask(nil), after...)
	if st := findSubtask(before, subtaskID); st != nil {
		st.Status = from
	}

	unlocked := resolver.NewlyAvailable(resolver.AvailableAll(task, before), resolver.AvailableAll(task, after))
	s.announcer.subtasks(ctx, task, unlocked, constants.ReasonSequentialDependencyCompleted)
}

type reviewFeedback struct {
	ApprovedAt string `json:"approved_at,omitempty"`
	ApprovedBy string `json:"approved_by,omitempty"`
	ReturnedAt string `json:"returned_at,omitempty"`
	ReturnedBy string `json:"returned_by,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// feedback builds the payload stored alongside review outcomes. Other
// transitions leave the stored feedback untouched.
func (s *StatusService) feedback(to constants.TaskStatus, tr Transition) (*string, error) {
	now := s.now().UTC().Format(time.RFC3339)

	var fb reviewFeedback
	switch to {
	case constants.StatusApproved:
		fb = reviewFeedback{ApprovedAt: now, ApprovedBy: tr.ActorID, Comment: tr.Reason}
	case constants.StatusReturned:
		fb = reviewFeedback{ReturnedAt: now, ReturnedBy: tr.ActorID, Reason: tr.Reason}
	default:
		return nil, nil
	}

	raw, err := json.Marshal(fb)
	if err != nil {
		return nil, err
	}
	payload := string(raw)
	return &payload, nil
}
