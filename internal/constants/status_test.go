package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanSubtaskTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   TaskStatus
		to     TaskStatus
		expect bool
	}{
		{"pending -> in_progress", StatusPending, StatusInProgress, true},
		{"pending -> completed", StatusPending, StatusCompleted, false},
		{"pending -> approved", StatusPending, StatusApproved, false},
		{"pending -> blocked", StatusPending, StatusBlocked, false},

		{"in_progress -> completed", StatusInProgress, StatusCompleted, true},
		{"in_progress -> in_review", StatusInProgress, StatusInReview, true},
		{"in_progress -> approved", StatusInProgress, StatusApproved, false},
		{"in_progress -> pending", StatusInProgress, StatusPending, false},

		{"completed -> approved", StatusCompleted, StatusApproved, true},
		{"completed -> returned", StatusCompleted, StatusReturned, true},
		{"in_review -> approved", StatusInReview, StatusApproved, true},
		{"completed -> pending", StatusCompleted, StatusPending, false},

		{"returned -> pending", StatusReturned, StatusPending, true},
		{"returned -> in_progress", StatusReturned, StatusInProgress, false},

		{"approved -> pending", StatusApproved, StatusPending, false},
		{"approved -> returned", StatusApproved, StatusReturned, false},
		{"approved -> approved", StatusApproved, StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, CanSubtaskTransition(tt.from, tt.to))
		})
	}
}

func TestCanTaskTransition(t *testing.T) {
	assert.True(t, CanTaskTransition(StatusPending, StatusInProgress))
	assert.True(t, CanTaskTransition(StatusPending, StatusBlocked))
	assert.True(t, CanTaskTransition(StatusInProgress, StatusBlocked))
	assert.True(t, CanTaskTransition(StatusBlocked, StatusPending))
	assert.False(t, CanTaskTransition(StatusBlocked, StatusCompleted))
	assert.False(t, CanTaskTransition(StatusPending, StatusCompleted))
}

func TestStatusView(t *testing.T) {
	assert.Equal(t, StatusInReview, StatusCompleted.View())
	assert.Equal(t, StatusPending, StatusPending.View())
	assert.Equal(t, StatusCompleted, StatusInReview.Normalize())
	assert.True(t, StatusReturned.IsValidForSubtask())
	assert.False(t, StatusBlocked.IsValidForSubtask())
	assert.False(t, TaskStatus("done").IsValid())
}
