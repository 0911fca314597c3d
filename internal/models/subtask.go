package model

import (
	"time"

	"work-tracker.com/work-tracker/internal/constants"
)

type Subtask struct {
	ID            string               `gorm:"primaryKey;size:36" json:"id"`
	TaskID        string               `gorm:"size:36;index;not null" json:"task_id"`
	Title         string               `gorm:"not null" json:"title"`
	Description   string               `gorm:"not null;default:''" json:"description"`
	SequenceOrder *int                 `json:"sequence_order"`
	AssignedTo    string               `gorm:"size:36;index;not null" json:"assigned_to"`
	Status        constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	Feedback      string               `gorm:"type:text;not null;default:''" json:"feedback,omitempty"`
	StartDate     time.Time            `gorm:"not null" json:"start_date"`
	Deadline      time.Time            `gorm:"not null" json:"deadline"`
	Version       uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Level returns the subtask's sequence level; an absent order counts as level 0.
func (s *Subtask) Level() int {
	if s.SequenceOrder == nil {
		return 0
	}
	return *s.SequenceOrder
}
