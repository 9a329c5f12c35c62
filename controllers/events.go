package controllers

import (
	"net/http"
	"time"

	"organizo/models"
	"organizo/permissions"
	"organizo/realtime"
	"organizo/services"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	Svc *services.Services
	// WaitBound caps how long Wait blocks before giving up with 204.
	// Zero means realtime.DefaultPollInterval.
	WaitBound time.Duration
}

// Poll is the reconciliation endpoint for browser tabs: it returns every
// task and notification the actor can see that changed after the cursor,
// plus a fresh cursor. Clients replace their cached view wholesale with
// what comes back.
func (ec *EventController) Poll(c *gin.Context) {
	actor := currentUser(c)

	since := time.Time{}
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since cursor"})
			return
		}
		since = parsed
	}
	now := time.Now()

	taskQ := ec.Svc.DB.Model(&models.Task{}).Where("updated_at > ?", since)
	if !permissions.IsAdminRank(actor.Role) {
		taskQ = taskQ.Where("creator_id = ? OR assignee_id = ?", actor.ID, actor.ID)
	}
	var tasks []models.Task
	if err := taskQ.Order("updated_at ASC").Find(&tasks).Error; err != nil {
		respondError(c, err)
		return
	}

	// Removals since the cursor, so tabs drop tasks they cached before the
	// delete. Soft-deleted rows are the only trace a delete leaves.
	deletedQ := ec.Svc.DB.Unscoped().Model(&models.Task{}).Where("deleted_at > ?", since)
	if !permissions.IsAdminRank(actor.Role) {
		deletedQ = deletedQ.Where("creator_id = ? OR assignee_id = ?", actor.ID, actor.ID)
	}
	var deletedIDs []uint
	if err := deletedQ.Pluck("id", &deletedIDs).Error; err != nil {
		respondError(c, err)
		return
	}

	var notifications []models.Notification
	if err := ec.Svc.DB.
		Where("target_user_id = ? AND created_at > ?", actor.ID, since).
		Order("created_at ASC").Find(&notifications).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":            tasks,
		"deleted_task_ids": deletedIDs,
		"notifications":    notifications,
		"cursor":           now.Format(time.RFC3339Nano),
	})
}

// Wait blocks until an event addressed to the actor is published, or the
// wait bound elapses. It lets clients cut the tail latency of plain polling
// without holding a connection open indefinitely.
func (ec *EventController) Wait(c *gin.Context) {
	actor := currentUser(c)

	bound := ec.WaitBound
	if bound <= 0 {
		bound = realtime.DefaultPollInterval
	}

	ch, cancel := ec.Svc.Bus.Subscribe(actor.ID)
	defer cancel()

	timer := time.NewTimer(bound)
	defer timer.Stop()

	select {
	case ev, ok := <-ch:
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, gin.H{"event": ev})
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	case <-timer.C:
		c.Status(http.StatusNoContent)
	}
}

func (ec *EventController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
