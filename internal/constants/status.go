package constants

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusInReview   TaskStatus = "in_review"
	StatusApproved   TaskStatus = "approved"
	StatusReturned   TaskStatus = "returned"
	StatusBlocked    TaskStatus = "blocked"

	// StatusActive is the projected status of a task whose subtasks are not all approved.
	// It is never stored.
	StatusActive TaskStatus = "active"
)

// subtaskTransitions is the legal transition table shared by subtasks and
// standalone tasks. completed is "delivered, awaiting review".
var subtaskTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {StatusApproved, StatusReturned},
	StatusReturned:   {StatusPending},
	StatusApproved:   {},
}

// taskExtraTransitions are only legal on tasks without subtasks.
var taskExtraTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusBlocked},
	StatusInProgress: {StatusBlocked},
	StatusBlocked:    {StatusPending},
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusInReview,
		StatusApproved, StatusReturned, StatusBlocked:
		return true
	}
	return false
}

// IsValidForSubtask reports whether s may be stored on a subtask.
func (s TaskStatus) IsValidForSubtask() bool {
	_, ok := subtaskTransitions[s]
	return ok
}

// IsDone reports whether work on an item carrying s has been delivered.
func (s TaskStatus) IsDone() bool {
	return s == StatusCompleted || s == StatusApproved
}

// Normalize folds the in_review view alias back onto the stored completed state.
func (s TaskStatus) Normalize() TaskStatus {
	if s == StatusInReview {
		return StatusCompleted
	}
	return s
}

// View returns the status shown to users: completed is presented as in_review.
func (s TaskStatus) View() TaskStatus {
	if s == StatusCompleted {
		return StatusInReview
	}
	return s
}

func CanSubtaskTransition(from, to TaskStatus) bool {
	return contains(subtaskTransitions[from.Normalize()], to.Normalize())
}

func CanTaskTransition(from, to TaskStatus) bool {
	if CanSubtaskTransition(from, to) {
		return true
	}
	return contains(taskExtraTransitions[from.Normalize()], to.Normalize())
}

func contains(list []TaskStatus, s TaskStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
