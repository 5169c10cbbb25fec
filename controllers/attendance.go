package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"classpulse_go/middleware"
	"classpulse_go/models"
	"classpulse_go/services/notifications"
	"classpulse_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceController struct {
	DB       *gorm.DB
	Notifier *notifications.Service
	Activity *middleware.ActivityLogger
}

type createAttendanceRequest struct {
	UserID   uint                  `json:"userId" validate:"required"`
	Date     string                `json:"date" validate:"required"`
	Subjects models.SubjectEntries `json:"subjects" validate:"required"`
}

// CreateAttendance records one day of attendance for a user. At most one
// record per (user, date) pair; the unique index backs up the lookup here.
func (at *AttendanceController) CreateAttendance(c *fiber.Ctx) error {
	staff, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req createAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format",
		})
	}

	if len(req.Subjects) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one subject is required",
		})
	}
	for _, s := range req.Subjects {
		if s.SubjectName == "" || !utils.IsValidSubjectStatus(s.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid subject entry",
			})
		}
	}

	// Check if user exists and is approved
	var user models.User
	if err := at.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if !user.IsApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User is not approved",
		})
	}

	// Check if attendance already exists for this date
	var existing models.Attendance
	if err := at.DB.Where("user_id = ? AND date = ?", req.UserID, date).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Attendance already exists for this date",
		})
	}

	attendance := models.Attendance{
		UserID:      req.UserID,
		Date:        date,
		Subjects:    req.Subjects,
		CreatedByID: staff.ID,
	}

	if err := at.DB.Create(&attendance).Error; err != nil {
		// Concurrent create for the same (user, date) hits the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Attendance already exists for this date",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create attendance record",
		})
	}

	msg := fmt.Sprintf("Your attendance for %s has been updated", utils.FormatDate(date))
	notifications.BestEffort(at.Notifier.Notify([]uint{req.UserID}, staff.ID,
		models.NotificationAttendanceUpdate, msg, fiber.Map{"attendanceId": attendance.ID}))

	at.DB.Preload("CreatedBy").First(&attendance, attendance.ID)

	at.Activity.Log(c, "CREATE", "attendance", attendance.ID, fiber.Map{
		"user_id": req.UserID,
		"date":    req.Date,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attendance": utils.ToAttendanceDTO(attendance, false),
	})
}

// GetMyAttendance returns the calling account's records, newest date first
func (at *AttendanceController) GetMyAttendance(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return at.listForUser(c, user.ID, false)
}

// GetUserAttendance returns any user's records (for teachers and admins)
func (at *AttendanceController) GetUserAttendance(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	return at.listForUser(c, uint(userID), true)
}

func (at *AttendanceController) listForUser(c *fiber.Ctx, userID uint, includeUser bool) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var total int64
	at.DB.Model(&models.Attendance{}).Where("user_id = ?", userID).Count(&total)

	query := at.DB.Where("user_id = ?", userID).Preload("CreatedBy")
	if includeUser {
		query = query.Preload("User")
	}

	var records []models.Attendance
	if err := query.Order("date DESC").
		Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance records",
		})
	}

	dtos := make([]utils.AttendanceDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, utils.ToAttendanceDTO(r, includeUser))
	}

	return c.JSON(fiber.Map{
		"attendance":  dtos,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// UpdateAttendance replaces the subject list wholesale and notifies the owner
func (at *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	staff, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var req struct {
		Subjects models.SubjectEntries `json:"subjects" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	for _, s := range req.Subjects {
		if s.SubjectName == "" || !utils.IsValidSubjectStatus(s.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid subject entry",
			})
		}
	}

	var attendance models.Attendance
	if err := at.DB.First(&attendance, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	if err := at.DB.Model(&attendance).Update("subjects", req.Subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update attendance record",
		})
	}

	msg := fmt.Sprintf("Your attendance for %s has been updated", utils.FormatDate(attendance.Date))
	notifications.BestEffort(at.Notifier.Notify([]uint{attendance.UserID}, staff.ID,
		models.NotificationAttendanceUpdate, msg, fiber.Map{"attendanceId": attendance.ID}))

	at.DB.Preload("CreatedBy").Preload("User").First(&attendance, attendance.ID)

	at.Activity.Log(c, "UPDATE", "attendance", attendance.ID, fiber.Map{"user_id": attendance.UserID})

	return c.JSON(fiber.Map{
		"attendance": utils.ToAttendanceDTO(attendance, true),
	})
}

// DeleteAttendance hard-deletes a record; no notification
func (at *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := at.DB.First(&attendance, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	if err := at.DB.Delete(&attendance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete attendance record",
		})
	}

	at.Activity.Log(c, "DELETE", "attendance", attendance.ID, fiber.Map{"user_id": attendance.UserID})

	return c.JSON(fiber.Map{
		"message": "Attendance record deleted successfully",
	})
}

// paginationParams reads page/limit query values with the defaults the
// listing endpoints share.
func paginationParams(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
