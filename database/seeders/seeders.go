package seeders

import (
	"log"
	"os"

	"classpulse_go/models"
	"classpulse_go/utils"

	"gorm.io/gorm"
)

// SeedSuperadmin creates a bootstrap superadmin account when none exists, so a
// fresh deployment always has a staff member able to approve registrations.
// Idempotent: a second run is a no-op.
func SeedSuperadmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleSuperadmin).Count(&count)
	if count > 0 {
		return
	}

	email := envOr("ADMIN_EMAIL", "admin@classpulse.local")
	password := envOr("ADMIN_PASSWORD", "changeme123")

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Seeder: failed to hash superadmin password: %v", err)
		return
	}

	admin := models.User{
		Name:       "Administrator",
		Email:      email,
		Password:   hashed,
		Role:       models.RoleSuperadmin,
		IsApproved: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Seeder: failed to create superadmin: %v", err)
		return
	}

	log.Printf("Seeder: superadmin account created (%s)", email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
