package controllers

import (
	"net/http/httptest"
	"testing"

	"classpulse_go/models"

	"github.com/gofiber/fiber/v2"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty", 0, 10, 0},
		{"exact fit", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"single item", 1, 10, 1},
		{"limit one", 5, 1, 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := totalPages(tc.total, tc.limit); got != tc.want {
				t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
			}
		})
	}
}

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"zero page clamps", "page=0", 1, 10},
		{"negative limit clamps", "limit=-5", 1, 10},
		{"garbage falls back", "page=abc&limit=xyz", 1, 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var page, limit int
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				page, limit = paginationParams(c)
				return c.SendString("ok")
			})

			target := "/"
			if tc.query != "" {
				target += "?" + tc.query
			}
			if _, err := app.Test(httptest.NewRequest("GET", target, nil)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestCanReply(t *testing.T) {
	feedback := &models.Feedback{BaseModel: models.BaseModel{ID: 1}, UserID: 7}

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"thread owner", &models.User{BaseModel: models.BaseModel{ID: 7}, Role: models.RoleUser}, true},
		{"other plain user", &models.User{BaseModel: models.BaseModel{ID: 8}, Role: models.RoleUser}, false},
		{"teacher", &models.User{BaseModel: models.BaseModel{ID: 2}, Role: models.RoleTeacher}, true},
		{"superadmin", &models.User{BaseModel: models.BaseModel{ID: 3}, Role: models.RoleSuperadmin}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := canReply(tc.user, feedback); got != tc.want {
				t.Fatalf("canReply = %v, want %v", got, tc.want)
			}
		})
	}
}
