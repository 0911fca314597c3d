package resolver

import (
	"sort"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
)

// Index is a per-batch lookup over pre-fetched tasks and subtasks. Build it
// once and query it for as many users as needed; it is never shared across
// requests.
type Index struct {
	tasks    map[string]*model.Task
	taskIDs  []string
	subtasks map[string][]model.Subtask
	levels   map[string][]Level
	byID     map[string]*model.Subtask
	orphans  []model.Subtask
}

func NewIndex(tasks []model.Task, subtasks []model.Subtask) *Index {
	ix := &Index{
		tasks:    make(map[string]*model.Task, len(tasks)),
		taskIDs:  make([]string, 0, len(tasks)),
		subtasks: make(map[string][]model.Subtask, len(tasks)),
		levels:   make(map[string][]Level, len(tasks)),
		byID:     make(map[string]*model.Subtask, len(subtasks)),
	}

	for i := range tasks {
		t := &tasks[i]
		if _, dup := ix.tasks[t.ID]; dup {
			continue
		}
		ix.tasks[t.ID] = t
		ix.taskIDs = append(ix.taskIDs, t.ID)
	}
	sort.Strings(ix.taskIDs)

	for _, st := range subtasks {
		if _, ok := ix.tasks[st.TaskID]; !ok {
			ix.orphans = append(ix.orphans, st)
			continue
		}
		ix.subtasks[st.TaskID] = append(ix.subtasks[st.TaskID], st)
	}

	for taskID, list := range ix.subtasks {
		for i := range list {
			ix.byID[list[i].ID] = &list[i]
		}
		ix.levels[taskID] = GroupLevels(list)
	}

	return ix
}

func (ix *Index) Task(id string) (*model.Task, bool) {
	t, ok := ix.tasks[id]
	return t, ok
}

func (ix *Index) Subtask(id string) (*model.Subtask, bool) {
	st, ok := ix.byID[id]
	return st, ok
}

func (ix *Index) Subtasks(taskID string) []model.Subtask {
	return ix.subtasks[taskID]
}

func (ix *Index) Levels(taskID string) []Level {
	return ix.levels[taskID]
}

// Tasks returns the indexed tasks ordered by id.
func (ix *Index) Tasks() []*model.Task {
	out := make([]*model.Task, 0, len(ix.taskIDs))
	for _, id := range ix.taskIDs {
		out = append(out, ix.tasks[id])
	}
	return out
}

// Orphans returns subtasks whose parent task was not part of the batch.
func (ix *Index) Orphans() []model.Subtask {
	return ix.orphans
}

func (ix *Index) Available(taskID, userID string) []model.Subtask {
	task, ok := ix.tasks[taskID]
	if !ok {
		return nil
	}
	return available(task, ix.subtasks[taskID], ix.levels[taskID], func(st *model.Subtask) bool {
		return st.AssignedTo == userID
	})
}

// Backlog counts what userID can start right now: available subtasks of every
// task where the user holds at least one subtask, plus pending tasks without
// subtasks assigned to the user directly.
func (ix *Index) Backlog(userID string) int {
	total := 0
	for _, id := range ix.taskIDs {
		task := ix.tasks[id]
		subtasks := ix.subtasks[id]

		if len(subtasks) == 0 {
			if task.Status == constants.StatusPending && task.HasAssignee(userID) {
				total++
			}
			continue
		}

		if !holdsSubtask(subtasks, userID) {
			continue
		}
		total += len(ix.Available(id, userID))
	}
	return total
}

func holdsSubtask(subtasks []model.Subtask, userID string) bool {
	for i := range subtasks {
		if subtasks[i].AssignedTo == userID {
			return true
		}
	}
	return false
}
