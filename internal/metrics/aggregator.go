// Package metrics derives per-user workload counters from pre-fetched
// tasks, subtasks and work assignments without touching the store.
package metrics

import (
	"time"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
	"work-tracker.com/work-tracker/internal/resolver"
)

// ApprovalWindow is the trailing period counted by TasksApprovedThisMonth.
const ApprovalWindow = 30 * 24 * time.Hour

type UserMetrics struct {
	UserID                 string `json:"user_id"`
	TasksPending           int    `json:"tasks_pending"`
	TodaysLoad             int    `json:"todays_load"`
	TasksInReview          int    `json:"tasks_in_review"`
	TasksReturned          int    `json:"tasks_returned"`
	OverdueTasks           int    `json:"overdue_tasks"`
	TasksApprovedThisMonth int    `json:"tasks_approved_this_month"`
}

// Snapshot is everything one aggregation needs, fetched up front.
type Snapshot struct {
	Tasks       []model.Task
	Subtasks    []model.Subtask
	Assignments []model.WorkAssignment
}

type Aggregator struct {
	now func() time.Time
	loc *time.Location
}

// NewAggregator builds an aggregator that decides "today" in loc.
func NewAggregator(now func() time.Time, loc *time.Location) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{now: now, loc: loc}
}

func (a *Aggregator) User(snap Snapshot, userID string) UserMetrics {
	return a.Team(snap, []string{userID})[0]
}

// Team computes metrics for each of userIDs, in the given order.
func (a *Aggregator) Team(snap Snapshot, userIDs []string) []UserMetrics {
	now := a.now()
	ix := resolver.NewIndex(snap.Tasks, snap.Subtasks)

	acc := make(map[string]*UserMetrics, len(userIDs))
	out := make([]UserMetrics, len(userIDs))
	for i, id := range userIDs {
		out[i].UserID = id
		if _, dup := acc[id]; !dup {
			acc[id] = &out[i]
		}
	}

	a.foldItems(ix, acc, now)
	a.foldAssignments(ix, snap.Assignments, acc, now)

	for id, m := range acc {
		m.TasksPending = ix.Backlog(id)
	}

	// duplicates in userIDs share the first entry's counters
	for i := range out {
		out[i] = *acc[out[i].UserID]
	}
	return out
}

func (a *Aggregator) foldItems(ix *resolver.Index, acc map[string]*UserMetrics, now time.Time) {
	for _, task := range ix.Tasks() {
		subtasks := ix.Subtasks(task.ID)
		if len(subtasks) == 0 {
			for _, userID := range task.AssignedUsers {
				if m, ok := acc[userID]; ok {
					countStatus(m, task.Status, task.Feedback, now)
				}
			}
			continue
		}

		for i := range subtasks {
			st := &subtasks[i]
			if m, ok := acc[st.AssignedTo]; ok {
				countStatus(m, st.Status, st.Feedback, now)
			}
		}
	}
}

func countStatus(m *UserMetrics, status constants.TaskStatus, feedback string, now time.Time) {
	switch status.Normalize() {
	case constants.StatusCompleted:
		m.TasksInReview++
	case constants.StatusReturned:
		m.TasksReturned++
	case constants.StatusApproved:
		approvedAt, ok := ApprovedAt(feedback)
		if ok && !approvedAt.After(now) && now.Sub(approvedAt) <= ApprovalWindow {
			m.TasksApprovedThisMonth++
		}
	}
}

func (a *Aggregator) foldAssignments(ix *resolver.Index, assignments []model.WorkAssignment, acc map[string]*UserMetrics, now time.Time) {
	today := a.day(now)

	for i := range assignments {
		wa := &assignments[i]
		m, ok := acc[wa.UserID]
		if !ok {
			continue
		}

		status, ok := assignmentStatus(ix, wa)
		if !ok || status.IsDone() {
			continue
		}

		switch day := a.day(wa.Date); {
		case day.Equal(today):
			m.TodaysLoad++
		case day.Before(today):
			m.OverdueTasks++
		}
	}
}

// assignmentStatus resolves the status of the item an assignment points at.
// Assignments whose item is gone are skipped.
func assignmentStatus(ix *resolver.Index, wa *model.WorkAssignment) (constants.TaskStatus, bool) {
	if wa.SubtaskID != nil && *wa.SubtaskID != "" {
		st, ok := ix.Subtask(*wa.SubtaskID)
		if !ok {
			return "", false
		}
		return st.Status.Normalize(), true
	}

	task, ok := ix.Task(wa.TaskID)
	if !ok {
		return "", false
	}
	return resolver.EffectiveStatus(task, ix.Subtasks(task.ID)), true
}

func (a *Aggregator) day(ts time.Time) time.Time {
	y, m, d := ts.In(a.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.loc)
}
