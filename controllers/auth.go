package controllers

import (
	"errors"
	"fmt"
	"strings"

	"classpulse_go/config"
	"classpulse_go/middleware"
	"classpulse_go/models"
	"classpulse_go/services/googleauth"
	"classpulse_go/services/notifications"
	"classpulse_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier *notifications.Service
	Google   googleauth.Verifier
	Auth     *middleware.AuthMiddleware
	Activity *middleware.ActivityLogger
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new account and issues a session token. Plain users
// start unapproved and staff are notified of the pending registration.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email and password are required",
		})
	}

	if req.Role == "" {
		req.Role = models.RoleUser
	}
	// Superadmin accounts cannot be self-registered
	if !utils.IsValidRegistrationRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User already exists",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashedPassword,
		Role:       req.Role,
		IsApproved: req.Role != models.RoleUser, // auto approve teachers
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		// Concurrent registration for the same email hits the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	// Tell every staff account a registration needs approval
	if user.Role == models.RoleUser {
		msg := fmt.Sprintf("New user %s has registered and needs approval", user.Name)
		notifications.BestEffort(ac.Notifier.NotifyStaff(user.ID, models.NotificationUserRegistration, msg,
			fiber.Map{"userId": user.ID}))
	}

	token, err := middleware.GenerateToken(&user, ac.Cfg.JWTSecret, ac.Cfg.JWTExpiresIn)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	ac.Activity.Log(c, "CREATE", "users", user.ID, fiber.Map{
		"email": user.Email,
		"role":  user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  utils.ToUserDTO(user),
	})
}

// Login authenticates an account and returns a JWT token. Unknown email and
// wrong password produce the identical error to avoid account enumeration.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := middleware.GenerateToken(&user, ac.Cfg.JWTSecret, ac.Cfg.JWTExpiresIn)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  utils.ToUserDTO(user),
	})
}

// GoogleLogin verifies a Google ID token, creating the account on first
// sign-in, and issues a session token.
func (ac *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := ac.Google.Verify(c.Context(), req.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid Google token",
		})
	}

	var user models.User
	err = ac.DB.Where("email = ? OR google_id = ?", profile.Email, profile.GoogleID).First(&user).Error
	if err != nil {
		user = models.User{
			Name:       profile.Name,
			Email:      profile.Email,
			GoogleID:   profile.GoogleID,
			Role:       models.RoleUser,
			IsApproved: false,
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create user",
			})
		}

		msg := fmt.Sprintf("New user %s has registered via Google and needs approval", user.Name)
		notifications.BestEffort(ac.Notifier.NotifyStaff(user.ID, models.NotificationUserRegistration, msg,
			fiber.Map{"userId": user.ID}))
	}

	token, err := middleware.GenerateToken(&user, ac.Cfg.JWTSecret, ac.Cfg.JWTExpiresIn)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  utils.ToUserDTO(user),
	})
}

// Me returns the current account's public profile
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(*user),
	})
}

// Logout invalidates the current JWT by storing it in the Redis blacklist
// until it would have expired anyway.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenString == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	if err := ac.Auth.Blacklist(tokenString, ac.Cfg.JWTExpiresIn); err != nil {
		// Redis failure must not block logout
		if user, uerr := middleware.GetCurrentUser(c); uerr == nil {
			ac.Activity.Log(c, "LOGOUT", "auth", user.ID, fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
