package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"organizo/models"
	"organizo/permissions"

	"gorm.io/gorm"
)

type runningTimer struct {
	taskID    uint
	startedAt time.Time
}

// timerTable tracks at most one running timer per user. The table itself is
// session state; the accumulated seconds land on the task row when a timer
// stops.
type timerTable struct {
	mu     sync.Mutex
	active map[uint]runningTimer
}

func newTimerTable() *timerTable {
	return &timerTable{active: make(map[uint]runningTimer)}
}

// StartTimer begins tracking time against the task. If the actor already
// has a timer running on another task it is stopped and its elapsed time
// persisted first, atomically with starting the new one.
func (s *Services) StartTimer(actor models.User, taskID uint) error {
	var task models.Task
	if err := s.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return err
	}
	if !permissions.CanViewTask(actor, task) {
		return ErrPermissionDenied
	}

	s.timers.mu.Lock()
	defer s.timers.mu.Unlock()

	if prev, ok := s.timers.active[actor.ID]; ok {
		if prev.taskID == taskID {
			return nil
		}
		s.persistElapsed(prev)
	}
	s.timers.active[actor.ID] = runningTimer{taskID: taskID, startedAt: time.Now()}
	return nil
}

// StopTimer stops the actor's running timer, if any, and persists the
// elapsed seconds. Stopping with no running timer is a no-op.
func (s *Services) StopTimer(actor models.User) error {
	s.timers.mu.Lock()
	defer s.timers.mu.Unlock()

	prev, ok := s.timers.active[actor.ID]
	if !ok {
		return nil
	}
	delete(s.timers.active, actor.ID)
	s.persistElapsed(prev)
	return nil
}

// ActiveTimerTask returns the task id of the actor's running timer.
func (s *Services) ActiveTimerTask(actor models.User) (uint, bool) {
	s.timers.mu.Lock()
	defer s.timers.mu.Unlock()
	t, ok := s.timers.active[actor.ID]
	return t.taskID, ok
}

func (s *Services) persistElapsed(t runningTimer) {
	elapsed := int64(time.Since(t.startedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	err := s.DB.Model(&models.Task{}).Where("id = ?", t.taskID).
		Update("tracked_time", gorm.Expr("tracked_time + ?", elapsed)).Error
	if err != nil {
		s.Log.WithField("task_id", t.taskID).WithField("error", err).
			Warn("persisting tracked time failed")
	}
}
