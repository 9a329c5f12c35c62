package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"organizo/constants"
	"organizo/models"
	"organizo/permissions"
	"organizo/realtime"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  uint       `json:"assignee_id"`
}

// TaskPatch carries a partial update; nil fields are untouched. A due date
// is removed with ClearDueDate rather than a null, which JSON decoding
// cannot tell apart from an absent field.
type TaskPatch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Stage        *string    `json:"stage"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	AssigneeID   *uint      `json:"assignee_id"`
	Attachments  *[]string  `json:"attachments"`
}

type TaskFilter struct {
	Stage    string
	Priority string
	Assigned string // "me" restricts to the actor's assignments
}

func validTitle(title string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	return n >= 1 && n <= 200
}

func (s *Services) CreateTask(actor models.User, input TaskInput) (*models.Task, error) {
	if !validTitle(input.Title) {
		return nil, fmt.Errorf("%w: title must be 1-200 characters", ErrValidation)
	}
	if input.Priority == "" {
		input.Priority = constants.PriorityMedium
	}
	if !constants.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, input.Priority)
	}

	task := models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Stage:       constants.StageNotStarted,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatorID:   actor.ID,
		AssigneeID:  input.AssigneeID,
		Attachments: []string{},
	}
	// Unassigned tasks belong to their creator.
	if task.AssigneeID == 0 {
		task.AssigneeID = actor.ID
	}

	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}

	if task.AssigneeID != task.CreatorID {
		s.notifyTaskAssigned(actor, task)
	}
	s.publish(realtime.KindTask, realtime.ActionCreated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, task.AssigneeID})

	return &task, nil
}

func (s *Services) GetTask(actor models.User, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}
	return &task, nil
}

func (s *Services) ListVisibleTasks(actor models.User, f TaskFilter) ([]models.Task, error) {
	q := s.DB.Model(&models.Task{})
	if !permissions.IsAdminRank(actor.Role) {
		q = q.Where("creator_id = ? OR assignee_id = ?", actor.ID, actor.ID)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Assigned == "me" {
		q = q.Where("assignee_id = ?", actor.ID)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Services) UpdateTask(actor models.User, id uint, patch TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !permissions.CanEditTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	prevAssignee := task.AssigneeID
	wasCompleted := task.Completed()

	// Semantic diff: attachment changes are tracked apart from content
	// changes and never count as a modification.
	modified := false
	attachmentsChanged := false

	if patch.Title != nil && *patch.Title != task.Title {
		if !validTitle(*patch.Title) {
			return nil, fmt.Errorf("%w: title must be 1-200 characters", ErrValidation)
		}
		task.Title = strings.TrimSpace(*patch.Title)
		modified = true
	}
	if patch.Description != nil && *patch.Description != task.Description {
		task.Description = *patch.Description
		modified = true
	}
	if patch.Priority != nil && *patch.Priority != task.Priority {
		if !constants.ValidPriority(*patch.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *patch.Priority)
		}
		task.Priority = *patch.Priority
		modified = true
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
		modified = true
	} else if patch.ClearDueDate && task.DueDate != nil {
		task.DueDate = nil
		modified = true
	}
	if patch.AssigneeID != nil && *patch.AssigneeID != task.AssigneeID {
		task.AssigneeID = *patch.AssigneeID
		modified = true
	}
	if patch.Stage != nil && *patch.Stage != task.Stage {
		if !constants.ValidStage(*patch.Stage) {
			return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, *patch.Stage)
		}
		if wasCompleted && !permissions.CanReopen(actor) {
			// Silently keep the completed stage; everything else in the
			// patch still applies.
		} else {
			task.Stage = *patch.Stage
			modified = true
		}
	}
	if patch.Attachments != nil {
		task.Attachments = *patch.Attachments
		attachmentsChanged = true
	}

	// completedAt moves with the stage, never independently.
	if task.Completed() && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	} else if !task.Completed() && task.CompletedAt != nil {
		task.CompletedAt = nil
	}

	if !modified && !attachmentsChanged {
		return &task, nil
	}

	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}

	// One atomic update produces at most one notification per recipient:
	// completion and assignment take precedence over the generic
	// modification type.
	already := map[uint]bool{}
	if task.Completed() && !wasCompleted {
		s.notifyTaskCompleted(actor, task)
		already[task.CreatorID] = true
	}
	if patch.AssigneeID != nil && task.AssigneeID != prevAssignee {
		s.notifyTaskAssigned(actor, task)
		already[task.AssigneeID] = true
	}
	if modified {
		s.notifyTaskModified(actor, task, already)
	}
	if attachmentsChanged {
		s.notifyAttachmentAdded(actor, task)
	}
	s.publish(realtime.KindTask, realtime.ActionUpdated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, prevAssignee, task.AssigneeID})

	return &task, nil
}

// ToggleCompletion flips a task between completed and in-progress. A regular
// user toggling an already-completed task they can see is a no-op: the
// unchanged task comes back with no error.
func (s *Services) ToggleCompletion(actor models.User, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	if task.Completed() {
		if !permissions.CanReopen(actor) {
			return &task, nil
		}
		task.Stage = constants.StageInProgress
		task.CompletedAt = nil
		if err := s.DB.Save(&task).Error; err != nil {
			return nil, err
		}
		s.publish(realtime.KindTask, realtime.ActionUpdated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, task.AssigneeID})
		return &task, nil
	}

	if !permissions.CanComplete(actor, task) {
		return nil, ErrPermissionDenied
	}
	now := time.Now()
	task.Stage = constants.StageCompleted
	task.CompletedAt = &now
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}

	s.notifyTaskCompleted(actor, task)
	s.publish(realtime.KindTask, realtime.ActionUpdated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, task.AssigneeID})
	return &task, nil
}

// DeleteTask removes the task and cascades to its comments and
// notifications. Child deletions are best effort: a failure is logged and
// the task still goes away.
func (s *Services) DeleteTask(actor models.User, id uint) error {
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return err
	}
	if !permissions.CanDeleteTask(actor, task) {
		return ErrPermissionDenied
	}

	if err := s.DB.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		s.Log.WithFields(logrus.Fields{"task_id": id, "error": err}).Warn("cascade delete of comments failed")
	}
	if err := s.DB.Where("task_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		s.Log.WithFields(logrus.Fields{"task_id": id, "error": err}).Warn("cascade delete of notifications failed")
	}
	if err := s.DB.Delete(&models.Task{}, id).Error; err != nil {
		return err
	}

	s.publish(realtime.KindTask, realtime.ActionDeleted, id, id, actor.ID, []uint{task.CreatorID, task.AssigneeID})
	return nil
}

func (s *Services) AddAttachment(actor models.User, id uint, name string) (*models.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: attachment name required", ErrValidation)
	}
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	task.Attachments = append(task.Attachments, name)
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}

	s.notifyAttachmentAdded(actor, task)
	s.publish(realtime.KindTask, realtime.ActionUpdated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, task.AssigneeID})
	return &task, nil
}

// UpdateTrackedTime sets the task's accumulated tracked seconds.
func (s *Services) UpdateTrackedTime(actor models.User, id uint, seconds int64) (*models.Task, error) {
	if seconds < 0 {
		return nil, fmt.Errorf("%w: tracked time cannot be negative", ErrValidation)
	}
	var task models.Task
	if err := s.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !permissions.CanViewTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	task.TrackedTime = seconds
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}
	s.publish(realtime.KindTask, realtime.ActionUpdated, task.ID, task.ID, actor.ID, []uint{task.CreatorID, task.AssigneeID})
	return &task, nil
}
