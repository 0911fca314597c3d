// Package resolver decides which subtasks of a task can be worked on right now.
//
// A non-sequential task has no ordering: every pending subtask is available
// to its assignee. A sequential task groups its subtasks into levels by
// sequence_order; only the first level that is not fully approved (the
// active level) may be started, and nothing is available once every level
// has been approved.
package resolver

import (
	"sort"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
)

// Level is a set of subtasks sharing one sequence_order. They may proceed in parallel.
type Level struct {
	Order    int
	Subtasks []model.Subtask
}

// Complete reports whether every subtask in the level has been approved.
func (l Level) Complete() bool {
	for i := range l.Subtasks {
		if l.Subtasks[i].Status != constants.StatusApproved {
			return false
		}
	}
	return true
}

// GroupLevels groups subtasks by level in ascending order. Subtasks keep
// their input order inside a level.
func GroupLevels(subtasks []model.Subtask) []Level {
	if len(subtasks) == 0 {
		return nil
	}

	positions := make(map[int]int)
	var levels []Level
	for _, st := range subtasks {
		order := st.Level()
		idx, ok := positions[order]
		if !ok {
			idx = len(levels)
			positions[order] = idx
			levels = append(levels, Level{Order: order})
		}
		levels[idx].Subtasks = append(levels[idx].Subtasks, st)
	}

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Order < levels[j].Order
	})
	return levels
}

// ActiveLevel returns the first level that is not complete.
func ActiveLevel(levels []Level) (Level, bool) {
	for _, lvl := range levels {
		if !lvl.Complete() {
			return lvl, true
		}
	}
	return Level{}, false
}

// Available returns userID's pending subtasks of task that are not blocked
// by an earlier level.
func Available(task *model.Task, subtasks []model.Subtask, userID string) []model.Subtask {
	return available(task, subtasks, GroupLevels(subtasks), func(st *model.Subtask) bool {
		return st.AssignedTo == userID
	})
}

// AvailableAll is Available for every assignee at once.
func AvailableAll(task *model.Task, subtasks []model.Subtask) []model.Subtask {
	return available(task, subtasks, GroupLevels(subtasks), nil)
}

// IsAvailable reports whether the subtask with subtaskID may be started by its assignee.
func IsAvailable(task *model.Task, subtasks []model.Subtask, subtaskID string) bool {
	for _, st := range AvailableAll(task, subtasks) {
		if st.ID == subtaskID {
			return true
		}
	}
	return false
}

// NewlyAvailable returns the subtasks in after that were not in before.
func NewlyAvailable(before, after []model.Subtask) []model.Subtask {
	seen := make(map[string]struct{}, len(before))
	for _, st := range before {
		seen[st.ID] = struct{}{}
	}

	var fresh []model.Subtask
	for _, st := range after {
		if _, ok := seen[st.ID]; !ok {
			fresh = append(fresh, st)
		}
	}
	return fresh
}

// EffectiveStatus projects the status of a task. A task with subtasks is
// approved once all of them are, and active otherwise.
func EffectiveStatus(task *model.Task, subtasks []model.Subtask) constants.TaskStatus {
	if len(subtasks) == 0 {
		return task.Status
	}
	for i := range subtasks {
		if subtasks[i].Status != constants.StatusApproved {
			return constants.StatusActive
		}
	}
	return constants.StatusApproved
}

func available(task *model.Task, subtasks []model.Subtask, levels []Level, match func(*model.Subtask) bool) []model.Subtask {
	if len(subtasks) == 0 {
		return nil
	}

	candidates := subtasks
	if task.IsSequential {
		active, ok := ActiveLevel(levels)
		if !ok {
			return nil
		}
		candidates = active.Subtasks
	}

	var out []model.Subtask
	for i := range candidates {
		st := &candidates[i]
		if st.Status != constants.StatusPending {
			continue
		}
		if match != nil && !match(st) {
			continue
		}
		out = append(out, *st)
	}
	return out
}
