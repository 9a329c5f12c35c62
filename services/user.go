package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"organizo/constants"
	"organizo/models"
	"organizo/permissions"
	"organizo/realtime"
	"organizo/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func validRole(role string) bool {
	switch role {
	case constants.RoleUser, constants.RoleAdmin, constants.RoleSuperAdmin:
		return true
	}
	return false
}

// Register is the self-service signup path: the new account is always a
// plain user.
func (s *Services) Register(input RegisterInput) (*models.User, error) {
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Role:     constants.RoleUser,
		IsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser is the admin path. Admins may only create plain users;
// super-admins may create any rank.
func (s *Services) CreateUser(actor models.User, input UserInput) (*models.User, error) {
	if input.Role == "" {
		input.Role = constants.RoleUser
	}
	if !validRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}
	if !permissions.CanManageUser(actor, models.User{Role: input.Role}) {
		return nil, ErrPermissionDenied
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return nil, err
	}

	s.publish(realtime.KindUser, realtime.ActionCreated, user.ID, 0, actor.ID, []uint{user.ID})
	return &user, nil
}

func (s *Services) ListUsers(actor models.User) ([]models.User, error) {
	if !permissions.IsAdminRank(actor.Role) {
		return nil, ErrPermissionDenied
	}
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser edits another account. Role changes are reserved for
// super-admins.
func (s *Services) UpdateUser(actor models.User, targetID uint, patch UserPatch) (*models.User, error) {
	var target models.User
	if err := s.DB.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return nil, err
	}
	if !permissions.CanManageUser(actor, target) {
		return nil, ErrPermissionDenied
	}
	if patch.Role != nil && *patch.Role != target.Role {
		if !permissions.CanChangeRole(actor) {
			return nil, ErrPermissionDenied
		}
		if !validRole(*patch.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *patch.Role)
		}
		target.Role = *patch.Role
	}
	if patch.Name != nil {
		target.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		target.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}

	if err := s.DB.Save(&target).Error; err != nil {
		return nil, err
	}
	s.publish(realtime.KindUser, realtime.ActionUpdated, target.ID, 0, actor.ID, []uint{target.ID})
	return &target, nil
}

func (s *Services) DeleteUser(actor models.User, targetID uint) error {
	var target models.User
	if err := s.DB.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return err
	}
	if !permissions.CanDeleteUser(actor, target) {
		return ErrPermissionDenied
	}
	if err := s.DB.Delete(&models.User{}, targetID).Error; err != nil {
		return err
	}
	s.publish(realtime.KindUser, realtime.ActionDeleted, targetID, 0, actor.ID, []uint{targetID})
	return nil
}

var profileFields = map[string]bool{"name": true, "email": true}

// UpdateOwnProfile applies an actor's edit to their own record. Admin ranks
// apply immediately; regular users go through the approval workflow, and a
// new request replaces any unresolved one.
func (s *Services) UpdateOwnProfile(actor models.User, fields map[string]string) (*models.ProfileChangeRequest, error) {
	cleaned := make(map[string]string, len(fields))
	for k, v := range fields {
		if !profileFields[k] {
			return nil, fmt.Errorf("%w: field %q is not editable", ErrValidation, k)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("%w: field %q cannot be blank", ErrValidation, k)
		}
		cleaned[k] = v
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no changes submitted", ErrValidation)
	}

	if permissions.AppliesProfileDirectly(actor) {
		if err := s.applyProfileFields(actor.ID, cleaned); err != nil {
			return nil, err
		}
		s.publish(realtime.KindUser, realtime.ActionUpdated, actor.ID, 0, actor.ID, []uint{actor.ID})
		return nil, nil
	}

	// Replace the unresolved request, if any.
	if err := s.DB.Where("user_id = ? AND status = ?", actor.ID, constants.ProfileChangePending).
		Delete(&models.ProfileChangeRequest{}).Error; err != nil {
		return nil, err
	}
	req := models.ProfileChangeRequest{
		UserID:          actor.ID,
		RequestedFields: cleaned,
		Status:          constants.ProfileChangePending,
		RequestedAt:     time.Now(),
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return nil, err
	}

	s.notifyProfileRequest(actor)
	s.publish(realtime.KindProfile, realtime.ActionCreated, req.ID, 0, actor.ID, []uint{actor.ID})
	return &req, nil
}

func (s *Services) ListPendingProfileChanges(actor models.User) ([]models.ProfileChangeRequest, error) {
	if !permissions.IsAdminRank(actor.Role) {
		return nil, ErrPermissionDenied
	}
	var reqs []models.ProfileChangeRequest
	if err := s.DB.Where("status = ?", constants.ProfileChangePending).
		Order("requested_at ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *Services) ApproveProfileChange(actor models.User, requestID uint) error {
	return s.resolveProfileChange(actor, requestID, true, "")
}

func (s *Services) DenyProfileChange(actor models.User, requestID uint, reason string) error {
	return s.resolveProfileChange(actor, requestID, false, reason)
}

func (s *Services) resolveProfileChange(actor models.User, requestID uint, approve bool, reason string) error {
	if !permissions.IsAdminRank(actor.Role) {
		return ErrPermissionDenied
	}
	var req models.ProfileChangeRequest
	if err := s.DB.Where("id = ? AND status = ?", requestID, constants.ProfileChangePending).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: pending profile change %d", ErrNotFound, requestID)
		}
		return err
	}
	var user models.User
	if err := s.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
		}
		return err
	}

	if approve {
		if err := s.applyProfileFields(req.UserID, req.RequestedFields); err != nil {
			return err
		}
		req.Status = constants.ProfileChangeApproved
	} else {
		req.Status = constants.ProfileChangeDenied
		req.Reason = reason
	}
	now := time.Now()
	req.ResolvedAt = &now
	req.ResolvedBy = &actor.ID
	if err := s.DB.Save(&req).Error; err != nil {
		return err
	}

	s.notifyProfileResolved(actor, user, approve, reason)
	s.publish(realtime.KindProfile, realtime.ActionUpdated, req.ID, 0, actor.ID, []uint{user.ID})
	return nil
}

func (s *Services) applyProfileFields(userID uint, fields map[string]string) error {
	updates := map[string]any{}
	if v, ok := fields["name"]; ok {
		updates["name"] = v
	}
	if v, ok := fields["email"]; ok {
		updates["email"] = strings.ToLower(v)
	}
	if len(updates) == 0 {
		return nil
	}
	return s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}
