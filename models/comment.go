package models

import "time"

type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TaskID    uint       `gorm:"index" json:"task_id"`
	AuthorID  uint       `gorm:"index" json:"author_id"`
	Text      string     `json:"text"`
	Edited    bool       `gorm:"default:false" json:"edited"`
	EditedAt  *time.Time `json:"edited_at"`
	CreatedAt time.Time  `json:"created_at"`
}
