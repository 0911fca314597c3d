package model

import (
	"time"

	"work-tracker.com/work-tracker/internal/constants"
)

type Task struct {
	ID            string               `gorm:"primaryKey;size:36" json:"id"`
	ProjectID     string               `gorm:"size:36;index;not null" json:"project_id"`
	Title         string               `gorm:"not null" json:"title"`
	Description   string               `gorm:"not null;default:''" json:"description"`
	IsSequential  bool                 `gorm:"not null;default:false" json:"is_sequential"`
	Status        constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	AssignedUsers []string             `gorm:"serializer:json;type:text;not null" json:"assigned_users"`
	Feedback      string               `gorm:"type:text;not null;default:''" json:"feedback,omitempty"`
	StartDate     time.Time            `gorm:"not null" json:"start_date"`
	Deadline      time.Time            `gorm:"not null" json:"deadline"`
	Version       uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// HasAssignee reports whether userID is one of the task's assigned users.
func (t *Task) HasAssignee(userID string) bool {
	for _, u := range t.AssignedUsers {
		if u == userID {
			return true
		}
	}
	return false
}
