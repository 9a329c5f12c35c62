package services

import (
	"errors"
	"testing"

	"organizo/constants"
	"organizo/models"
)

func TestProfileChange_ApprovalFlow(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	super := seedUser(t, svc, "root", constants.RoleSuperAdmin)
	member := seedUser(t, svc, "bob", constants.RoleUser)

	req, err := svc.UpdateOwnProfile(member, map[string]string{"email": "newbob@example.com"})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}
	if req == nil || req.Status != constants.ProfileChangePending {
		t.Fatalf("request = %+v, want pending", req)
	}

	// Every admin rank is notified, the requester is not.
	if got := countNotifications(t, svc, constants.NotifyProfileApprovalRequest, admin.ID); got != 1 {
		t.Errorf("admin approval-request notifications = %d, want 1", got)
	}
	if got := countNotifications(t, svc, constants.NotifyProfileApprovalRequest, super.ID); got != 1 {
		t.Errorf("super-admin approval-request notifications = %d, want 1", got)
	}
	if got := countNotifications(t, svc, constants.NotifyProfileApprovalRequest, member.ID); got != 0 {
		t.Errorf("requester approval-request notifications = %d, want 0", got)
	}

	// The email stays unchanged until approval.
	var stored models.User
	svc.DB.First(&stored, member.ID)
	if stored.Email != "bob@example.com" {
		t.Fatalf("email changed before approval: %q", stored.Email)
	}

	if err := svc.ApproveProfileChange(admin, req.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	svc.DB.First(&stored, member.ID)
	if stored.Email != "newbob@example.com" {
		t.Errorf("email = %q after approval", stored.Email)
	}
	if got := countNotifications(t, svc, constants.NotifyProfileApproved, member.ID); got != 1 {
		t.Errorf("approval notifications = %d, want 1", got)
	}

	// The request cannot be resolved twice.
	if err := svc.ApproveProfileChange(admin, req.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second approve err = %v, want ErrNotFound", err)
	}
}

func TestProfileChange_DenialKeepsFieldsAndNotifies(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)

	req, err := svc.UpdateOwnProfile(member, map[string]string{"name": "Robert"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if err := svc.DenyProfileChange(admin, req.ID, "use your legal name"); err != nil {
		t.Fatalf("deny: %v", err)
	}

	var stored models.User
	svc.DB.First(&stored, member.ID)
	if stored.Name != "bob" {
		t.Errorf("name = %q, change applied despite denial", stored.Name)
	}
	var resolved models.ProfileChangeRequest
	svc.DB.First(&resolved, req.ID)
	if resolved.Status != constants.ProfileChangeDenied || resolved.Reason == "" {
		t.Errorf("request = %+v, want denied with reason", resolved)
	}
	if got := countNotifications(t, svc, constants.NotifyProfileRejected, member.ID); got != 1 {
		t.Errorf("rejection notifications = %d, want 1", got)
	}
}

func TestProfileChange_NewRequestReplacesPending(t *testing.T) {
	svc := newTestServices(t)
	mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)

	first, err := svc.UpdateOwnProfile(member, map[string]string{"name": "Rob"})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := svc.UpdateOwnProfile(member, map[string]string{"name": "Bobby"})
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	var pending int64
	svc.DB.Model(&models.ProfileChangeRequest{}).
		Where("user_id = ? AND status = ?", member.ID, constants.ProfileChangePending).
		Count(&pending)
	if pending != 1 {
		t.Fatalf("pending requests = %d, want 1", pending)
	}
	var gone int64
	svc.DB.Model(&models.ProfileChangeRequest{}).Where("id = ?", first.ID).Count(&gone)
	if gone != 0 {
		t.Error("first request still present after being replaced")
	}
	if second.RequestedFields["name"] != "Bobby" {
		t.Errorf("surviving request fields = %v", second.RequestedFields)
	}
}

func TestProfileChange_AdminRankAppliesImmediately(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)

	req, err := svc.UpdateOwnProfile(admin, map[string]string{"name": "Head Admin"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if req != nil {
		t.Fatal("admin profile edit produced an approval request")
	}

	var stored models.User
	svc.DB.First(&stored, admin.ID)
	if stored.Name != "Head Admin" {
		t.Errorf("name = %q, want immediate apply", stored.Name)
	}
}

func TestUserManagement_RankRules(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	super := seedUser(t, svc, "root", constants.RoleSuperAdmin)
	member := seedUser(t, svc, "bob", constants.RoleUser)

	// An admin cannot touch another admin rank.
	otherAdmin := seedUser(t, svc, "admin2", constants.RoleAdmin)
	if _, err := svc.UpdateUser(admin, otherAdmin.ID, UserPatch{}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin edits admin: err = %v, want ErrPermissionDenied", err)
	}
	if err := svc.DeleteUser(admin, otherAdmin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin deletes admin: err = %v, want ErrPermissionDenied", err)
	}
	if err := svc.DeleteUser(admin, admin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin deletes self: err = %v, want ErrPermissionDenied", err)
	}

	// Role changes are a super-admin right.
	role := constants.RoleAdmin
	if _, err := svc.UpdateUser(admin, member.ID, UserPatch{Role: &role}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin promotes user: err = %v, want ErrPermissionDenied", err)
	}
	promoted, err := svc.UpdateUser(super, member.ID, UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("super-admin promotes user: %v", err)
	}
	if promoted.Role != constants.RoleAdmin {
		t.Errorf("role = %q, want admin", promoted.Role)
	}

	// Super-admins may remove admins.
	if err := svc.DeleteUser(super, otherAdmin.ID); err != nil {
		t.Errorf("super-admin deletes admin: %v", err)
	}
}

func TestCreateUser_AdminLimitedToPlainUsers(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	super := seedUser(t, svc, "root", constants.RoleSuperAdmin)

	if _, err := svc.CreateUser(admin, UserInput{
		Name: "new admin", Email: "na@example.com", Password: "secret1", Role: constants.RoleAdmin,
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin creates admin: err = %v, want ErrPermissionDenied", err)
	}

	if _, err := svc.CreateUser(admin, UserInput{
		Name: "plain", Email: "plain@example.com", Password: "secret1",
	}); err != nil {
		t.Errorf("admin creates user: %v", err)
	}

	if _, err := svc.CreateUser(super, UserInput{
		Name: "new admin", Email: "na@example.com", Password: "secret1", Role: constants.RoleAdmin,
	}); err != nil {
		t.Errorf("super-admin creates admin: %v", err)
	}
}
