package services

import (
	"time"

	"organizo/realtime"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services owns the canonical store and every core operation over it. One
// instance is built per process and handed to the controllers; tests build
// a fresh one around an in-memory database.
type Services struct {
	DB  *gorm.DB
	Log *logrus.Logger
	Bus realtime.Broadcaster

	timers *timerTable
}

func New(db *gorm.DB, log *logrus.Logger, bus realtime.Broadcaster) *Services {
	if log == nil {
		log = logrus.New()
	}
	if bus == nil {
		bus = realtime.NewHub()
	}
	return &Services{
		DB:     db,
		Log:    log,
		Bus:    bus,
		timers: newTimerTable(),
	}
}

func (s *Services) publish(kind, action string, entityID, taskID, actorID uint, recipients []uint) {
	s.Bus.Publish(realtime.Event{
		Kind:       kind,
		Action:     action,
		EntityID:   entityID,
		TaskID:     taskID,
		ActorID:    actorID,
		Recipients: recipients,
		At:         time.Now(),
	})
}
