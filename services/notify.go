package services

import (
	"errors"
	"fmt"

	"organizo/constants"
	"organizo/models"
	"organizo/permissions"
	"organizo/realtime"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// createNotification writes one notification row and announces it. A failed
// write is logged and swallowed: notification delivery never fails the
// mutation it derives from.
func (s *Services) createNotification(n models.Notification) {
	if err := s.DB.Create(&n).Error; err != nil {
		s.Log.WithFields(logrus.Fields{
			"type":   n.Type,
			"target": n.TargetUserID,
			"error":  err,
		}).Error("notification write failed")
		return
	}
	var taskID uint
	if n.TaskID != nil {
		taskID = *n.TaskID
	}
	var actorID uint
	if n.FromUserID != nil {
		actorID = *n.FromUserID
	}
	s.publish(realtime.KindNotification, realtime.ActionCreated, n.ID, taskID, actorID, []uint{n.TargetUserID})
}

func (s *Services) actorName(actor models.User) string {
	if actor.Name != "" {
		return actor.Name
	}
	return actor.Email
}

func (s *Services) notifyTaskAssigned(actor models.User, task models.Task) {
	if task.AssigneeID == actor.ID || task.AssigneeID == 0 {
		return
	}
	from := actor.ID
	taskID := task.ID
	s.createNotification(models.Notification{
		Type:         constants.NotifyTaskAssigned,
		Title:        "New Task Assigned",
		Message:      fmt.Sprintf("%s assigned you the task %q", s.actorName(actor), task.Title),
		TargetUserID: task.AssigneeID,
		FromUserID:   &from,
		TaskID:       &taskID,
	})
}

func (s *Services) notifyTaskCompleted(actor models.User, task models.Task) {
	if task.CreatorID == actor.ID {
		return
	}
	from := actor.ID
	taskID := task.ID
	s.createNotification(models.Notification{
		Type:         constants.NotifyTaskCompleted,
		Title:        "Task Completed",
		Message:      fmt.Sprintf("%s marked the task %q as completed", s.actorName(actor), task.Title),
		TargetUserID: task.CreatorID,
		FromUserID:   &from,
		TaskID:       &taskID,
	})
}

// notifyTaskModified targets assignee and creator, skipping the actor and
// anyone in exclude who was already notified about the same event through a
// more specific type.
func (s *Services) notifyTaskModified(actor models.User, task models.Task, exclude map[uint]bool) {
	from := actor.ID
	taskID := task.ID
	seen := map[uint]bool{actor.ID: true}
	for id := range exclude {
		seen[id] = true
	}
	for _, target := range []uint{task.AssigneeID, task.CreatorID} {
		if target == 0 || seen[target] {
			continue
		}
		seen[target] = true
		s.createNotification(models.Notification{
			Type:         constants.NotifyTaskModified,
			Title:        "Task Updated",
			Message:      fmt.Sprintf("%s updated the task %q", s.actorName(actor), task.Title),
			TargetUserID: target,
			FromUserID:   &from,
			TaskID:       &taskID,
		})
	}
}

func (s *Services) notifyAttachmentAdded(actor models.User, task models.Task) {
	if task.CreatorID == actor.ID {
		return
	}
	from := actor.ID
	taskID := task.ID
	s.createNotification(models.Notification{
		Type:         constants.NotifyAttachmentAdded,
		Title:        "Attachment Added",
		Message:      fmt.Sprintf("%s added an attachment to %q", s.actorName(actor), task.Title),
		TargetUserID: task.CreatorID,
		FromUserID:   &from,
		TaskID:       &taskID,
	})
}

// notifyCommentAdded routes by the commenter's rank: admin comments go to
// the assignee, regular-user comments go to the creator.
func (s *Services) notifyCommentAdded(actor models.User, task models.Task) {
	target := task.CreatorID
	if permissions.IsAdminRank(actor.Role) {
		target = task.AssigneeID
	}
	if target == 0 || target == actor.ID {
		return
	}
	from := actor.ID
	taskID := task.ID
	s.createNotification(models.Notification{
		Type:         constants.NotifyCommentAdded,
		Title:        "New Comment",
		Message:      fmt.Sprintf("%s commented on %q", s.actorName(actor), task.Title),
		TargetUserID: target,
		FromUserID:   &from,
		TaskID:       &taskID,
	})
}

func (s *Services) notifyProfileRequest(user models.User) {
	var admins []models.User
	if err := s.DB.Where("role IN ?", []string{constants.RoleAdmin, constants.RoleSuperAdmin}).
		Find(&admins).Error; err != nil {
		s.Log.WithField("error", err).Error("loading admins for profile request notification failed")
		return
	}
	from := user.ID
	for _, admin := range admins {
		s.createNotification(models.Notification{
			Type:         constants.NotifyProfileApprovalRequest,
			Title:        "Profile Update Request",
			Message:      fmt.Sprintf("%s requested a profile change", s.actorName(user)),
			TargetUserID: admin.ID,
			FromUserID:   &from,
		})
	}
}

func (s *Services) notifyProfileResolved(admin models.User, user models.User, approved bool, reason string) {
	from := admin.ID
	n := models.Notification{
		TargetUserID: user.ID,
		FromUserID:   &from,
	}
	if approved {
		n.Type = constants.NotifyProfileApproved
		n.Title = "Profile Update Approved"
		n.Message = "Your profile changes have been approved"
	} else {
		n.Type = constants.NotifyProfileRejected
		n.Title = "Profile Update Rejected"
		n.Message = "Your profile changes have been rejected"
		if reason != "" {
			n.Message = fmt.Sprintf("Your profile changes have been rejected: %s", reason)
		}
	}
	s.createNotification(n)
}

type NotificationFilter struct {
	Unread bool
	Limit  int
	Offset int
}

// ListNotifications returns the actor's notifications newest first along
// with their unread count.
func (s *Services) ListNotifications(actor models.User, f NotificationFilter) ([]models.Notification, int64, error) {
	q := s.DB.Where("target_user_id = ?", actor.ID)
	if f.Unread {
		q = q.Where("is_read = ?", false)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}

	var list []models.Notification
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.DB.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", actor.ID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Services) MarkRead(actor models.User, id uint) error {
	var n models.Notification
	if err := s.DB.Where("id = ? AND target_user_id = ?", id, actor.ID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return err
	}
	return s.DB.Model(&n).Update("is_read", true).Error
}

func (s *Services) MarkAllRead(actor models.User) error {
	return s.DB.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", actor.ID, false).
		Update("is_read", true).Error
}

func (s *Services) DeleteNotification(actor models.User, id uint) error {
	res := s.DB.Where("id = ? AND target_user_id = ?", id, actor.ID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return nil
}

func (s *Services) DeleteReadNotifications(actor models.User) error {
	return s.DB.Where("target_user_id = ? AND is_read = ?", actor.ID, true).
		Delete(&models.Notification{}).Error
}
