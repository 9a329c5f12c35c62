package models

import "time"

type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Type         string    `gorm:"index" json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	TargetUserID uint      `gorm:"index" json:"target_user_id"`
	FromUserID   *uint     `json:"from_user_id"`
	TaskID       *uint     `gorm:"index" json:"task_id"`
	IsRead       bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}
