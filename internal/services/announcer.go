package services

import (
	"context"
	"log"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
	"work-tracker.com/work-tracker/internal/notify"
)

type noopDispatcher struct{}

func (noopDispatcher) Notify(notify.Intent) {}

// announcer turns availability changes into notification intents.
type announcer struct {
	store      Store
	dispatcher notify.Dispatcher
}

func newAnnouncer(store Store, dispatcher notify.Dispatcher) announcer {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	return announcer{store: store, dispatcher: dispatcher}
}

func (a announcer) subtasks(ctx context.Context, task *model.Task, subtasks []model.Subtask, reason constants.NotificationReason) {
	if len(subtasks) == 0 {
		return
	}

	projectName := a.projectName(ctx, task.ProjectID)
	for _, st := range subtasks {
		a.dispatcher.Notify(notify.Intent{
			UserIDs:     []string{st.AssignedTo},
			ItemID:      st.ID,
			ItemVersion: st.Version,
			ItemTitle:   st.Title,
			ProjectName: projectName,
			Reason:      reason,
			IsSubtask:   true,
			ParentTitle: task.Title,
		})
	}
}

func (a announcer) task(ctx context.Context, task *model.Task, userIDs []string, reason constants.NotificationReason) {
	if len(userIDs) == 0 {
		return
	}

	a.dispatcher.Notify(notify.Intent{
		UserIDs:     userIDs,
		ItemID:      task.ID,
		ItemVersion: task.Version,
		ItemTitle:   task.Title,
		ProjectName: a.projectName(ctx, task.ProjectID),
		Reason:      reason,
	})
}

func (a announcer) projectName(ctx context.Context, projectID string) string {
	project, err := a.store.FindProject(ctx, projectID)
	if err != nil {
		log.Printf("[notify] project %s lookup failed: %v", projectID, err)
		return ""
	}
	return project.Name
}
