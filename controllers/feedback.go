package controllers

import (
	"fmt"
	"strconv"

	"classpulse_go/middleware"
	"classpulse_go/models"
	"classpulse_go/services/notifications"
	"classpulse_go/storage"
	"classpulse_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FeedbackController struct {
	DB       *gorm.DB
	Notifier *notifications.Service
	Uploader *storage.UploadService
	Activity *middleware.ActivityLogger
}

// CreateFeedback opens a thread against an attendance record. Multipart body:
// attendanceId, subject, message, optional image. An image upload failure
// aborts the whole operation; no partial thread is created.
func (fc *FeedbackController) CreateFeedback(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	attendanceID, err := strconv.ParseUint(c.FormValue("attendanceId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}
	subject := c.FormValue("subject")
	message := c.FormValue("message")
	if subject == "" || message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject and message are required",
		})
	}

	imageURL, err := fc.uploadIfPresent(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload image",
		})
	}

	// Verify attendance exists
	var attendance models.Attendance
	if err := fc.DB.First(&attendance, uint(attendanceID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	feedback := models.Feedback{
		UserID:       user.ID,
		AttendanceID: uint(attendanceID),
		Subject:      subject,
		Message:      message,
		Image:        imageURL,
		SentByID:     user.ID,
		SentByRole:   user.Role,
	}

	if err := fc.DB.Create(&feedback).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create feedback",
		})
	}

	msg := fmt.Sprintf("%s sent feedback for %s", user.Name, subject)
	notifications.BestEffort(fc.Notifier.NotifyStaff(user.ID, models.NotificationFeedbackReceived, msg,
		fiber.Map{"feedbackId": feedback.ID}))

	fc.DB.Preload("Attendance").Preload("Attendance.CreatedBy").Preload("SentBy").
		Preload("Replies").Preload("Replies.SentBy").First(&feedback, feedback.ID)

	fc.Activity.Log(c, "CREATE", "feedback", feedback.ID, fiber.Map{"subject": subject})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"feedback": utils.ToFeedbackDTO(feedback, false),
	})
}

// GetMyFeedback returns the calling account's threads, newest first
func (fc *FeedbackController) GetMyFeedback(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var threads []models.Feedback
	if err := fc.threadQuery().Where("feedbacks.user_id = ?", user.ID).
		Order("created_at DESC").Find(&threads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch feedback",
		})
	}

	return c.JSON(fiber.Map{
		"feedback": fc.toDTOs(threads, false),
	})
}

// GetAllFeedback returns every thread (for teachers and admins)
func (fc *FeedbackController) GetAllFeedback(c *fiber.Ctx) error {
	var threads []models.Feedback
	if err := fc.threadQuery().Preload("User").
		Order("created_at DESC").Find(&threads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch feedback",
		})
	}

	return c.JSON(fiber.Map{
		"feedback": fc.toDTOs(threads, true),
	})
}

// Reply appends an entry to a thread. Permitted for the thread's owning user
// and for any staff account. Notification routing depends on who replied: a
// plain user notifies all staff, staff notify only the thread's owner.
func (fc *FeedbackController) Reply(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feedback ID",
		})
	}

	message := c.FormValue("message")
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	imageURL, err := fc.uploadIfPresent(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload image",
		})
	}

	var feedback models.Feedback
	if err := fc.DB.First(&feedback, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feedback not found",
		})
	}

	if !canReply(user, &feedback) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to reply",
		})
	}

	reply := models.FeedbackReply{
		FeedbackID: feedback.ID,
		Message:    message,
		Image:      imageURL,
		SentByID:   user.ID,
		SentByRole: user.Role,
	}
	if err := fc.DB.Create(&reply).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create reply",
		})
	}

	msg := fmt.Sprintf("%s replied to feedback", user.Name)
	if user.Role == models.RoleUser {
		notifications.BestEffort(fc.Notifier.NotifyStaff(user.ID, models.NotificationFeedbackReply, msg,
			fiber.Map{"feedbackId": feedback.ID}))
	} else {
		notifications.BestEffort(fc.Notifier.Notify([]uint{feedback.UserID}, user.ID,
			models.NotificationFeedbackReply, msg, fiber.Map{"feedbackId": feedback.ID}))
	}

	fc.threadQuery().First(&feedback, feedback.ID)

	fc.Activity.Log(c, "CREATE", "feedback", feedback.ID, fiber.Map{"action": "reply"})

	return c.JSON(fiber.Map{
		"feedback": utils.ToFeedbackDTO(feedback, false),
	})
}

// canReply permits the thread's owning user or any staff account.
func canReply(user *models.User, feedback *models.Feedback) bool {
	return feedback.UserID == user.ID || user.IsStaff()
}

func (fc *FeedbackController) threadQuery() *gorm.DB {
	return fc.DB.Preload("Attendance").Preload("Attendance.CreatedBy").Preload("SentBy").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("feedback_replies.created_at ASC, feedback_replies.id ASC")
		}).
		Preload("Replies.SentBy")
}

func (fc *FeedbackController) toDTOs(threads []models.Feedback, includeUser bool) []utils.FeedbackDTO {
	dtos := make([]utils.FeedbackDTO, 0, len(threads))
	for _, t := range threads {
		dtos = append(dtos, utils.ToFeedbackDTO(t, includeUser))
	}
	return dtos
}

// uploadIfPresent uploads the optional "image" form file, returning its URL
// or "" when the request carries no image.
func (fc *FeedbackController) uploadIfPresent(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return "", nil
	}
	return fc.Uploader.UploadImage(file)
}
