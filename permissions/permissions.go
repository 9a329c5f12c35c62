package permissions

import (
	"organizo/constants"
	"organizo/models"
)

// IsAdminRank reports whether the role carries admin privileges.
func IsAdminRank(role string) bool {
	return role == constants.RoleAdmin || role == constants.RoleSuperAdmin
}

func CanViewTask(actor models.User, task models.Task) bool {
	if IsAdminRank(actor.Role) {
		return true
	}
	return task.CreatorID == actor.ID || task.AssigneeID == actor.ID
}

func CanEditTask(actor models.User, task models.Task) bool {
	if IsAdminRank(actor.Role) {
		return true
	}
	return task.CreatorID == actor.ID
}

func CanDeleteTask(actor models.User, task models.Task) bool {
	if IsAdminRank(actor.Role) {
		return true
	}
	return task.CreatorID == actor.ID
}

// CanComplete covers marking a task completed. Reverting a completed task
// is a separate, stricter right (CanReopen).
func CanComplete(actor models.User, task models.Task) bool {
	if IsAdminRank(actor.Role) {
		return true
	}
	return task.AssigneeID == actor.ID || task.CreatorID == actor.ID
}

func CanReopen(actor models.User) bool {
	return IsAdminRank(actor.Role)
}

// CanViewComment implements derived comment visibility: admins see all,
// a regular user sees a comment only when they wrote it or an admin did.
func CanViewComment(actor models.User, comment models.Comment, authorRole string) bool {
	if IsAdminRank(actor.Role) {
		return true
	}
	return comment.AuthorID == actor.ID || IsAdminRank(authorRole)
}

func CanEditComment(actor models.User, comment models.Comment) bool {
	return comment.AuthorID == actor.ID
}

func CanDeleteComment(actor models.User, comment models.Comment) bool {
	return comment.AuthorID == actor.ID || IsAdminRank(actor.Role)
}

// CanManageUser covers create/edit rights over another account.
// Super-admins manage anyone; admins manage plain users only.
func CanManageUser(actor models.User, target models.User) bool {
	if actor.Role == constants.RoleSuperAdmin {
		return true
	}
	if actor.Role == constants.RoleAdmin {
		return target.Role == constants.RoleUser
	}
	return false
}

func CanDeleteUser(actor models.User, target models.User) bool {
	if actor.Role == constants.RoleSuperAdmin {
		return true
	}
	if actor.Role == constants.RoleAdmin {
		// Admins never delete themselves or other admin ranks.
		return target.Role == constants.RoleUser && target.ID != actor.ID
	}
	return false
}

func CanChangeRole(actor models.User) bool {
	return actor.Role == constants.RoleSuperAdmin
}

// AppliesProfileDirectly reports whether the actor's own profile edits skip
// the approval workflow.
func AppliesProfileDirectly(actor models.User) bool {
	return IsAdminRank(actor.Role)
}
