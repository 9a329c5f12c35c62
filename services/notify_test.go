package services

import (
	"testing"

	"organizo/constants"
	"organizo/models"
)

func TestCommentNotification_RoutesByAuthorRank(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)
	task := seedTask(t, svc, admin, member.ID)

	// A regular user's comment notifies the creator.
	if _, err := svc.AddComment(member, task.ID, "done"); err != nil {
		t.Fatalf("member comment: %v", err)
	}
	if got := countNotifications(t, svc, constants.NotifyCommentAdded, admin.ID); got != 1 {
		t.Errorf("creator comment notifications = %d, want 1", got)
	}

	// An admin's comment notifies the assignee.
	if _, err := svc.AddComment(admin, task.ID, "looks good"); err != nil {
		t.Fatalf("admin comment: %v", err)
	}
	if got := countNotifications(t, svc, constants.NotifyCommentAdded, member.ID); got != 1 {
		t.Errorf("assignee comment notifications = %d, want 1", got)
	}
}

func TestCommentNotification_SuppressedForSelf(t *testing.T) {
	svc := newTestServices(t)
	member := seedUser(t, svc, "bob", constants.RoleUser)
	task := seedTask(t, svc, member, member.ID)

	if _, err := svc.AddComment(member, task.ID, "note to self"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if got := countNotifications(t, svc, constants.NotifyCommentAdded, 0); got != 0 {
		t.Errorf("comment notifications = %d, want 0", got)
	}
}

func TestTaskModified_TargetsCounterpartsOnly(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)
	task := seedTask(t, svc, admin, member.ID)

	desc := "updated details"
	if _, err := svc.UpdateTask(admin, task.ID, TaskPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := countNotifications(t, svc, constants.NotifyTaskModified, member.ID); got != 1 {
		t.Errorf("assignee modified notifications = %d, want 1", got)
	}
	if got := countNotifications(t, svc, constants.NotifyTaskModified, admin.ID); got != 0 {
		t.Errorf("actor modified notifications = %d, want 0", got)
	}
}

func TestTaskModified_CompletionTakesPrecedence(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)

	task, err := svc.CreateTask(admin, TaskInput{Title: "Audit", AssigneeID: member.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// One atomic update completes the task and edits the description; the
	// assignee still receives a single notification for it.
	stage := constants.StageCompleted
	desc := "wrapped up"
	if _, err := svc.UpdateTask(admin, task.ID, TaskPatch{Stage: &stage, Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := countNotifications(t, svc, constants.NotifyTaskModified, member.ID); got != 1 {
		t.Errorf("assignee modified notifications = %d, want 1", got)
	}
	total := countNotifications(t, svc, "", member.ID)
	// task_assigned from creation plus the single modification above.
	if total != 2 {
		t.Errorf("assignee total notifications = %d, want 2", total)
	}
}

func TestAttachmentAdded_NotifiesCreatorOnly(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)
	task := seedTask(t, svc, admin, member.ID)

	if _, err := svc.AddAttachment(member, task.ID, "report.pdf"); err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	if got := countNotifications(t, svc, constants.NotifyAttachmentAdded, admin.ID); got != 1 {
		t.Errorf("creator attachment notifications = %d, want 1", got)
	}
	if got := countNotifications(t, svc, constants.NotifyTaskModified, 0); got != 0 {
		t.Errorf("attachment change produced %d task_modified notifications, want 0", got)
	}
}

func TestAttachmentAdded_SuppressedForCreator(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	task := seedTask(t, svc, admin, admin.ID)

	if _, err := svc.AddAttachment(admin, task.ID, "report.pdf"); err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if got := countNotifications(t, svc, constants.NotifyAttachmentAdded, 0); got != 0 {
		t.Errorf("attachment notifications = %d, want 0", got)
	}
}

func TestNotificationReads_ScopedToRecipient(t *testing.T) {
	svc := newTestServices(t)
	admin := mustAdmin(t, svc)
	member := seedUser(t, svc, "bob", constants.RoleUser)
	seedTask(t, svc, admin, member.ID)

	list, unread, err := svc.ListNotifications(member, NotificationFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || unread != 1 {
		t.Fatalf("list=%d unread=%d, want 1/1", len(list), unread)
	}

	// Another user cannot mark or delete someone else's notification.
	if err := svc.MarkRead(admin, list[0].ID); err == nil {
		t.Error("marking another user's notification succeeded")
	}
	if err := svc.DeleteNotification(admin, list[0].ID); err == nil {
		t.Error("deleting another user's notification succeeded")
	}

	if err := svc.MarkRead(member, list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	_, unread, err = svc.ListNotifications(member, NotificationFilter{})
	if err != nil {
		t.Fatalf("list after read: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}

	if err := svc.DeleteReadNotifications(member); err != nil {
		t.Fatalf("delete read: %v", err)
	}
	var remaining int64
	svc.DB.Model(&models.Notification{}).Where("target_user_id = ?", member.ID).Count(&remaining)
	if remaining != 0 {
		t.Errorf("remaining notifications = %d, want 0", remaining)
	}
}
