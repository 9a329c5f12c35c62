package realtime

import "time"

const (
	KindTask         = "task"
	KindComment      = "comment"
	KindNotification = "notification"
	KindUser         = "user"
	KindProfile      = "profile"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one committed mutation of the canonical store. Recipients
// are the user ids whose view the change affects.
type Event struct {
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	EntityID   uint      `json:"entity_id"`
	TaskID     uint      `json:"task_id,omitempty"`
	ActorID    uint      `json:"actor_id"`
	Recipients []uint    `json:"recipients"`
	At         time.Time `json:"at"`
}

// Broadcaster fans committed mutations out to live observers. The in-process
// Hub and the redis implementation both satisfy it; a polling reconciler can
// stand in where no push channel exists.
type Broadcaster interface {
	Publish(ev Event)
	Subscribe(userID uint) (<-chan Event, func())
}
