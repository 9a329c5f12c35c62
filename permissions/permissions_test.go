package permissions

import (
	"testing"

	"organizo/constants"
	"organizo/models"
)

var (
	superAdmin = models.User{ID: 1, Role: constants.RoleSuperAdmin}
	admin      = models.User{ID: 2, Role: constants.RoleAdmin}
	creator    = models.User{ID: 3, Role: constants.RoleUser}
	assignee   = models.User{ID: 4, Role: constants.RoleUser}
	outsider   = models.User{ID: 5, Role: constants.RoleUser}
)

var sharedTask = models.Task{ID: 10, CreatorID: creator.ID, AssigneeID: assignee.ID}

func TestCanViewTask(t *testing.T) {
	tests := []struct {
		name  string
		actor models.User
		want  bool
	}{
		{"super-admin", superAdmin, true},
		{"admin", admin, true},
		{"creator", creator, true},
		{"assignee", assignee, true},
		{"outsider", outsider, false},
	}
	for _, tt := range tests {
		if got := CanViewTask(tt.actor, sharedTask); got != tt.want {
			t.Errorf("CanViewTask(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanEditAndDeleteTask(t *testing.T) {
	tests := []struct {
		name  string
		actor models.User
		want  bool
	}{
		{"admin", admin, true},
		{"creator", creator, true},
		{"assignee", assignee, false},
		{"outsider", outsider, false},
	}
	for _, tt := range tests {
		if got := CanEditTask(tt.actor, sharedTask); got != tt.want {
			t.Errorf("CanEditTask(%s) = %v, want %v", tt.name, got, tt.want)
		}
		if got := CanDeleteTask(tt.actor, sharedTask); got != tt.want {
			t.Errorf("CanDeleteTask(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCompletionRights(t *testing.T) {
	if !CanComplete(assignee, sharedTask) {
		t.Error("assignee cannot complete")
	}
	if !CanComplete(creator, sharedTask) {
		t.Error("creator cannot complete")
	}
	if CanComplete(outsider, sharedTask) {
		t.Error("outsider can complete")
	}

	if CanReopen(creator) || CanReopen(assignee) {
		t.Error("regular user can reopen a completed task")
	}
	if !CanReopen(admin) || !CanReopen(superAdmin) {
		t.Error("admin rank cannot reopen")
	}
}

func TestCommentVisibility(t *testing.T) {
	adminComment := models.Comment{ID: 1, AuthorID: admin.ID}
	ownComment := models.Comment{ID: 2, AuthorID: assignee.ID}
	peerComment := models.Comment{ID: 3, AuthorID: creator.ID}

	if !CanViewComment(assignee, adminComment, constants.RoleAdmin) {
		t.Error("assignee cannot see admin comment")
	}
	if !CanViewComment(assignee, ownComment, constants.RoleUser) {
		t.Error("assignee cannot see own comment")
	}
	if CanViewComment(assignee, peerComment, constants.RoleUser) {
		t.Error("assignee sees a peer's comment")
	}
	if !CanViewComment(admin, peerComment, constants.RoleUser) {
		t.Error("admin cannot see a user comment")
	}
}

func TestCommentMutationRights(t *testing.T) {
	comment := models.Comment{ID: 1, AuthorID: creator.ID}

	if !CanEditComment(creator, comment) {
		t.Error("author cannot edit own comment")
	}
	if CanEditComment(admin, comment) {
		t.Error("admin can edit another user's comment")
	}
	if !CanDeleteComment(creator, comment) {
		t.Error("author cannot delete own comment")
	}
	if !CanDeleteComment(admin, comment) {
		t.Error("admin cannot delete a comment")
	}
	if CanDeleteComment(assignee, comment) {
		t.Error("unrelated user can delete a comment")
	}
}

func TestUserManagementRights(t *testing.T) {
	if !CanManageUser(superAdmin, admin) {
		t.Error("super-admin cannot manage an admin")
	}
	if CanManageUser(admin, admin) {
		t.Error("admin can manage an admin rank")
	}
	if !CanManageUser(admin, creator) {
		t.Error("admin cannot manage a plain user")
	}
	if CanManageUser(creator, outsider) {
		t.Error("plain user can manage accounts")
	}

	if CanDeleteUser(admin, admin) {
		t.Error("admin can delete themself")
	}
	if !CanDeleteUser(superAdmin, admin) {
		t.Error("super-admin cannot delete an admin")
	}
	if CanChangeRole(admin) {
		t.Error("admin can change roles")
	}
	if !CanChangeRole(superAdmin) {
		t.Error("super-admin cannot change roles")
	}
}
