package models

import "time"

// ProfileChangeRequest holds a regular user's profile edit awaiting admin
// review. At most one pending request exists per user; a newer request
// replaces the unresolved one.
type ProfileChangeRequest struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"index" json:"user_id"`
	RequestedFields map[string]string `gorm:"serializer:json" json:"requested_fields"`
	Status          string            `gorm:"default:'pending'" json:"status"`
	RequestedAt     time.Time         `json:"requested_at"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	ResolvedBy      *uint             `json:"resolved_by"`
	Reason          string            `json:"reason"`
}
