package routes

import (
	"classpulse_go/config"
	"classpulse_go/controllers"
	"classpulse_go/middleware"
	"classpulse_go/services/googleauth"
	"classpulse_go/services/notifications"
	"classpulse_go/storage"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The guard composition here
// is the single source of truth for which roles may reach each operation.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	authMW := middleware.NewAuthMiddleware(db, rdb, cfg.JWTSecret)
	activity := middleware.NewActivityLogger(db)
	notifier := notifications.NewService(db)
	uploader := storage.NewUploadService(cfg)
	google := googleauth.New(cfg.GoogleClientID)

	authController := &controllers.AuthController{
		DB: db, Cfg: cfg, Notifier: notifier, Google: google, Auth: authMW, Activity: activity,
	}
	userController := &controllers.UserController{DB: db, Notifier: notifier, Activity: activity}
	attendanceController := &controllers.AttendanceController{DB: db, Notifier: notifier, Activity: activity}
	feedbackController := &controllers.FeedbackController{DB: db, Notifier: notifier, Uploader: uploader, Activity: activity}
	notificationController := &controllers.NotificationController{DB: db}

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/google", authController.GoogleLogin)
	auth.Get("/me", authMW.RequireAuth(), authController.Me)
	auth.Post("/logout", authMW.RequireAuth(), authController.Logout)

	// User management routes (staff only)
	users := api.Group("/users", authMW.RequireAuth(), middleware.RequireStaff())
	users.Get("/", userController.GetUsers)
	users.Put("/:id/approve", userController.ApproveUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Attendance routes
	attendance := api.Group("/attendance", authMW.RequireAuth())
	attendance.Post("/", middleware.RequireStaff(), attendanceController.CreateAttendance)
	attendance.Get("/my-attendance", middleware.RequireApproved(), attendanceController.GetMyAttendance)
	attendance.Get("/user/:userId", middleware.RequireStaff(), attendanceController.GetUserAttendance)
	attendance.Put("/:id", middleware.RequireStaff(), attendanceController.UpdateAttendance)
	attendance.Delete("/:id", middleware.RequireStaff(), attendanceController.DeleteAttendance)

	// Feedback routes
	feedback := api.Group("/feedback", authMW.RequireAuth())
	feedback.Post("/", middleware.RequireApproved(), feedbackController.CreateFeedback)
	feedback.Get("/my-feedback", middleware.RequireApproved(), feedbackController.GetMyFeedback)
	feedback.Get("/", middleware.RequireStaff(), feedbackController.GetAllFeedback)
	// Reply authorization (owner or staff) is checked in the handler
	feedback.Post("/:id/reply", feedbackController.Reply)

	// Notification routes (any authenticated account)
	notifs := api.Group("/notifications", authMW.RequireAuth())
	notifs.Get("/", notificationController.GetNotifications)
	notifs.Put("/mark-all-read", notificationController.MarkAllAsRead)
	notifs.Put("/:id/read", notificationController.MarkAsRead)
	notifs.Get("/unread-count", notificationController.GetUnreadCount)
}
