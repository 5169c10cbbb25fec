package middleware

import (
	"encoding/json"
	"time"

	"classpulse_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestLogger emits one structured log line per request, levelled by the
// response status. When auth middleware has resolved an account by the time
// the handler returns, its id is attached.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		fields := logrus.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   status,
			"duration": time.Since(start).String(),
			"ip":       c.IP(),
		}
		if user, uerr := GetCurrentUser(c); uerr == nil {
			fields["user_id"] = user.ID
		}

		entry := logrus.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}

		return err
	}
}

// ActivityLogger persists audit records. Handlers call Log directly for each
// successful mutation; there is no catch-all middleware, so every mutation
// yields exactly one audit row, with handler-supplied details.
type ActivityLogger struct {
	DB *gorm.DB
}

func NewActivityLogger(db *gorm.DB) *ActivityLogger {
	return &ActivityLogger{DB: db}
}

// Log saves one activity row. The write runs in the background so a slow or
// failing audit insert never delays the request that triggered it.
func (al *ActivityLogger) Log(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	var userID uint
	if user, err := GetCurrentUser(c); err == nil {
		userID = user.ID
	}

	var detailsJSON models.JSON
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = b
		}
	}

	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}

	go func(row models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in activity log write")
			}
		}()
		if err := al.DB.Create(&row).Error; err != nil {
			logrus.WithError(err).Error("Failed to save activity log")
		}
	}(entry)
}
