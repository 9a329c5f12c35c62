package routes

import (
	"organizo/constants"
	"organizo/controllers"
	"organizo/middleware"
	"organizo/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(svc *services.Services) *gin.Engine {
	r := gin.Default()

	authController := controllers.AuthController{Svc: svc}
	taskController := controllers.TaskController{Svc: svc}
	commentController := controllers.CommentController{Svc: svc}
	notificationController := controllers.NotificationController{Svc: svc}
	userController := controllers.UserController{Svc: svc}
	eventController := controllers.EventController{Svc: svc}

	r.GET("/health", eventController.Health)
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	auth := r.Group("/", middleware.AuthMiddleware(svc.DB))
	adminOnly := middleware.RoleMiddleware(constants.RoleAdmin, constants.RoleSuperAdmin)

	auth.GET("/me", authController.Me)
	auth.POST("/refresh", authController.Refresh)

	auth.POST("/tasks", taskController.CreateTask)
	auth.GET("/tasks", taskController.GetTasks)
	auth.GET("/tasks/:id", taskController.GetTask)
	auth.PUT("/tasks/:id", taskController.UpdateTask)
	auth.DELETE("/tasks/:id", taskController.DeleteTask)
	auth.POST("/tasks/:id/toggle", taskController.ToggleCompletion)
	auth.POST("/tasks/:id/time", taskController.UpdateTrackedTime)
	auth.POST("/tasks/:id/timer/start", taskController.StartTimer)
	auth.POST("/timer/stop", taskController.StopTimer)
	auth.POST("/tasks/:id/attachments", taskController.AddAttachment)

	auth.GET("/tasks/:id/comments", commentController.ListComments)
	auth.POST("/tasks/:id/comments", commentController.AddComment)
	auth.PUT("/comments/:id", commentController.EditComment)
	auth.DELETE("/comments/:id", commentController.DeleteComment)

	auth.GET("/notifications", notificationController.List)
	auth.PUT("/notifications/read-all", notificationController.MarkAllRead)
	auth.PUT("/notifications/:id/read", notificationController.MarkRead)
	auth.DELETE("/notifications/read", notificationController.DeleteRead)
	auth.DELETE("/notifications/:id", notificationController.Delete)

	auth.GET("/users", adminOnly, userController.GetUsers)
	auth.POST("/users", adminOnly, userController.CreateUser)
	auth.PUT("/users/:id", adminOnly, userController.UpdateUser)
	auth.DELETE("/users/:id", adminOnly, userController.DeleteUser)
	auth.GET("/profile", userController.GetProfile)
	auth.PUT("/profile", userController.UpdateProfile)
	auth.GET("/profile-changes", adminOnly, userController.PendingApprovals)
	auth.POST("/profile-changes/:id/approve", adminOnly, userController.ApproveProfile)
	auth.POST("/profile-changes/:id/reject", adminOnly, userController.RejectProfile)

	auth.GET("/events/poll", eventController.Poll)
	auth.GET("/events/wait", eventController.Wait)

	return r
}
