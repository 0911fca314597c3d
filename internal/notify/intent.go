package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"work-tracker.com/work-tracker/internal/constants"
)

// Intent asks for users to be told about a work item. It says nothing about
// how the message travels. ItemVersion is the item's row version when the
// intent was raised, so a later change to the same item is not mistaken for
// a duplicate.
type Intent struct {
	UserIDs     []string                     `json:"user_ids"`
	ItemID      string                       `json:"item_id"`
	ItemVersion uint                         `json:"item_version"`
	ItemTitle   string                       `json:"item_title"`
	ProjectName string                       `json:"project_name"`
	Reason      constants.NotificationReason `json:"reason"`
	IsSubtask   bool                         `json:"is_subtask"`
	ParentTitle string                       `json:"parent_title,omitempty"`
}

// Key identifies an intent for deduplication.
func (i Intent) Key() string {
	users := append([]string(nil), i.UserIDs...)
	sort.Strings(users)
	return fmt.Sprintf("%s:%s:v%d:%s", i.Reason, i.ItemID, i.ItemVersion, strings.Join(users, ","))
}

// Dispatcher accepts intents without blocking the caller. Delivery is best
// effort and its failures never reach the caller.
type Dispatcher interface {
	Notify(intent Intent)
}

// Sink delivers an intent over one channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, intent Intent) error
}

// Message renders the text users receive for an intent.
func Message(i Intent) string {
	var b strings.Builder

	switch i.Reason {
	case constants.ReasonSequentialDependencyCompleted:
		b.WriteString("The previous step was approved. You can start now:\n")
	case constants.ReasonOrderChanged:
		b.WriteString("The task order changed. You can start now:\n")
	default:
		if i.IsSubtask {
			b.WriteString("New subtask assigned to you:\n")
		} else {
			b.WriteString("New task assigned to you:\n")
		}
	}

	b.WriteString(i.ItemTitle)
	if i.IsSubtask && i.ParentTitle != "" {
		fmt.Fprintf(&b, "\nTask: %s", i.ParentTitle)
	}
	if i.ProjectName != "" {
		fmt.Fprintf(&b, "\nProject: %s", i.ProjectName)
	}
	return b.String()
}
