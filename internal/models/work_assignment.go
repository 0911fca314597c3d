package model

import "time"

// WorkAssignment records that a user is scheduled on a task or subtask on a given day.
type WorkAssignment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	TaskID    string    `gorm:"size:36;index;not null" json:"task_id"`
	SubtaskID *string   `gorm:"size:36;index" json:"subtask_id,omitempty"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
