package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"organizo/models"
	"organizo/permissions"
	"organizo/realtime"

	"gorm.io/gorm"
)

const maxCommentLength = 1000

func validCommentText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(trimmed); n < 1 || n > maxCommentLength {
		return "", fmt.Errorf("%w: comment text must be 1-%d characters", ErrValidation, maxCommentLength)
	}
	return trimmed, nil
}

func (s *Services) AddComment(actor models.User, taskID uint, text string) (*models.Comment, error) {
	trimmed, err := validCommentText(text)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return nil, err
	}
	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	comment := models.Comment{
		TaskID:   taskID,
		AuthorID: actor.ID,
		Text:     trimmed,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.notifyCommentAdded(actor, task)
	s.publish(realtime.KindComment, realtime.ActionCreated, comment.ID, taskID, actor.ID, []uint{task.CreatorID, task.AssigneeID})
	return &comment, nil
}

func (s *Services) EditComment(actor models.User, commentID uint, text string) (*models.Comment, error) {
	trimmed, err := validCommentText(text)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	if err := s.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return nil, err
	}
	if !permissions.CanEditComment(actor, comment) {
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	comment.Text = trimmed
	comment.Edited = true
	comment.EditedAt = &now
	if err := s.DB.Save(&comment).Error; err != nil {
		return nil, err
	}

	s.publish(realtime.KindComment, realtime.ActionUpdated, comment.ID, comment.TaskID, actor.ID, s.taskAudience(comment.TaskID))
	return &comment, nil
}

func (s *Services) DeleteComment(actor models.User, commentID uint) error {
	var comment models.Comment
	if err := s.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return err
	}
	if !permissions.CanDeleteComment(actor, comment) {
		return ErrPermissionDenied
	}

	if err := s.DB.Delete(&models.Comment{}, commentID).Error; err != nil {
		return err
	}

	s.publish(realtime.KindComment, realtime.ActionDeleted, commentID, comment.TaskID, actor.ID, s.taskAudience(comment.TaskID))
	return nil
}

// ListVisibleComments returns the task's comments in insertion order,
// filtered by the derived visibility rule: a non-admin only sees comments
// written by themself or by an admin rank.
func (s *Services) ListVisibleComments(actor models.User, taskID uint) ([]models.Comment, error) {
	var task models.Task
	if err := s.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return nil, err
	}
	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	var comments []models.Comment
	if err := s.DB.Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	if permissions.IsAdminRank(actor.Role) {
		return comments, nil
	}

	roles, err := s.authorRoles(comments)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if permissions.CanViewComment(actor, c, roles[c.AuthorID]) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *Services) authorRoles(comments []models.Comment) (map[uint]string, error) {
	ids := make([]uint, 0, len(comments))
	seen := make(map[uint]bool, len(comments))
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}
	roles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}

	var authors []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return nil, err
	}
	for _, u := range authors {
		roles[u.ID] = u.Role
	}
	return roles, nil
}

func (s *Services) taskAudience(taskID uint) []uint {
	var task models.Task
	if err := s.DB.First(&task, taskID).Error; err != nil {
		return nil
	}
	return []uint{task.CreatorID, task.AssigneeID}
}
