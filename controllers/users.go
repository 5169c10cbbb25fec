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

type UserController struct {
	DB       *gorm.DB
	Notifier *notifications.Service
	Activity *middleware.ActivityLogger
}

// GetUsers lists non-staff accounts, newest first (for teachers and admins)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Where("role = ?", models.RoleUser).
		Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": utils.ToUserDTOs(users),
	})
}

// ApproveUser flips the one-way approval flag and notifies the account
func (uc *UserController) ApproveUser(c *fiber.Ctx) error {
	staff, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := uc.DB.Model(&user).Update("is_approved", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to approve user",
		})
	}
	user.IsApproved = true

	msg := fmt.Sprintf("Your account has been approved by %s", staff.Name)
	notifications.BestEffort(uc.Notifier.Notify([]uint{user.ID}, staff.ID,
		models.NotificationUserRegistration, msg, fiber.Map{"approved": true}))

	uc.Activity.Log(c, "UPDATE", "users", user.ID, fiber.Map{"action": "approve"})

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// UpdateUser updates name, email and subjects of an account
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req struct {
		Name     string            `json:"name"`
		Email    string            `json:"email"`
		Subjects models.StringList `json:"subjects"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	// Email uniqueness across all accounts
	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := uc.DB.Where("email = ? AND id <> ?", req.Email, user.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already exists",
			})
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Subjects != nil {
		updates["subjects"] = req.Subjects
	}

	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Email already exists",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update user",
			})
		}
	}

	uc.DB.First(&user, user.ID)

	uc.Activity.Log(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// DeleteUser hard-deletes an account. Attendance, feedback and notifications
// referencing it are left in place (no cascade).
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	uc.Activity.Log(c, "DELETE", "users", user.ID, fiber.Map{"email": user.Email})

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
