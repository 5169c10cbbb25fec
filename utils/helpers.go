package utils

import (
	"strings"
	"time"

	"classpulse_go/models"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	switch role {
	case models.RoleUser, models.RoleTeacher, models.RoleSuperadmin:
		return true
	}
	return false
}

// IsValidRegistrationRole checks if a role may be chosen at self-registration.
// Superadmin accounts are only created by seeding or by existing staff.
func IsValidRegistrationRole(role string) bool {
	return role == models.RoleUser || role == models.RoleTeacher
}

// IsStaffRole reports whether the role is teacher or superadmin
func IsStaffRole(role string) bool {
	return role == models.RoleTeacher || role == models.RoleSuperadmin
}

// IsValidSubjectStatus checks an attendance subject status value
func IsValidSubjectStatus(status string) bool {
	switch status {
	case models.StatusPresent, models.StatusAbsent, models.StatusLate:
		return true
	}
	return false
}

// ParseDate parses a calendar date from either "2006-01-02" or an RFC3339
// timestamp, truncating to day granularity in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a date the way attendance notifications present it,
// e.g. "Mon Jan 02 2006".
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}
