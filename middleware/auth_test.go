package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"classpulse_go/models"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret-key-0123456789"

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{
		BaseModel: models.BaseModel{ID: 42},
		Role:      models.RoleTeacher,
	}

	token, err := GenerateToken(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}
	if claims.Role != models.RoleTeacher {
		t.Fatalf("role = %q, want teacher", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &models.User{BaseModel: models.BaseModel{ID: 1}, Role: models.RoleUser}
	token, err := GenerateToken(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken(token, "another-secret-entirely"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	user := &models.User{BaseModel: models.BaseModel{ID: 1}, Role: models.RoleUser}
	token, err := GenerateToken(user, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

// guardApp builds a fiber app that injects the given user into the request
// context before running the handler under test.
func guardApp(user *models.User, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		user   *models.User
		roles  []string
		status int
	}{
		{"matching role", &models.User{Role: models.RoleTeacher}, []string{models.RoleTeacher}, fiber.StatusOK},
		{"one of several", &models.User{Role: models.RoleSuperadmin}, []string{models.RoleTeacher, models.RoleSuperadmin}, fiber.StatusOK},
		{"wrong role", &models.User{Role: models.RoleUser}, []string{models.RoleTeacher}, fiber.StatusForbidden},
		{"no user in context", nil, []string{models.RoleTeacher}, fiber.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := guardApp(tc.user, RequireRole(tc.roles...))
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{models.RoleTeacher, fiber.StatusOK},
		{models.RoleSuperadmin, fiber.StatusOK},
		{models.RoleUser, fiber.StatusForbidden},
	}

	for _, tc := range tests {
		app := guardApp(&models.User{Role: tc.role}, RequireStaff())
		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("role %q: status = %d, want %d", tc.role, resp.StatusCode, tc.status)
		}
	}
}

func TestRequireApproved(t *testing.T) {
	tests := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"approved", &models.User{Role: models.RoleUser, IsApproved: true}, fiber.StatusOK},
		{"pending", &models.User{Role: models.RoleUser, IsApproved: false}, fiber.StatusForbidden},
		{"no user in context", nil, fiber.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := guardApp(tc.user, RequireApproved())
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestBlacklistWithoutRedis(t *testing.T) {
	am := NewAuthMiddleware(nil, nil, testSecret)
	if err := am.Blacklist("some-token", time.Hour); err != nil {
		t.Fatalf("blacklist without Redis should be a no-op, got %v", err)
	}
	if am.isBlacklisted("some-token") {
		t.Fatal("nothing can be blacklisted without Redis")
	}
}
