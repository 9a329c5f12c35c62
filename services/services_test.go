package services

import (
	"testing"

	"organizo/constants"
	"organizo/models"
	"organizo/realtime"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Comment{},
		&models.Notification{},
		&models.ProfileChangeRequest{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return New(db, log, realtime.NewHub())
}

func seedUser(t *testing.T, svc *Services, name, role string) models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := svc.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedTask(t *testing.T, svc *Services, creator models.User, assigneeID uint) models.Task {
	t.Helper()

	task, err := svc.CreateTask(creator, TaskInput{
		Title:      "Audit Q3",
		AssigneeID: assigneeID,
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return *task
}

func countNotifications(t *testing.T, svc *Services, notifType string, target uint) int64 {
	t.Helper()

	var n int64
	q := svc.DB.Model(&models.Notification{})
	if notifType != "" {
		q = q.Where("type = ?", notifType)
	}
	if target != 0 {
		q = q.Where("target_user_id = ?", target)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return n
}

func mustAdmin(t *testing.T, svc *Services) models.User {
	t.Helper()
	return seedUser(t, svc, "admin", constants.RoleAdmin)
}
