package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Stage       string     `gorm:"default:'not-started'" json:"stage"`
	Priority    string     `gorm:"default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatorID   uint       `json:"creator_id"`
	AssigneeID  uint       `json:"assignee_id"`
	// Accumulated tracked time in seconds, never negative.
	TrackedTime int64      `gorm:"default:0" json:"tracked_time"`
	Attachments []string   `gorm:"serializer:json" json:"attachments"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	// Soft delete, so reconciling clients can learn about removals.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Task) Completed() bool {
	return t.Stage == "completed"
}
