package utils

import (
	"testing"
	"time"

	"classpulse_go/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := CheckPassword("secret123", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong-password", hash); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestRoleValidation(t *testing.T) {
	tests := []struct {
		role         string
		valid        bool
		registerable bool
		staff        bool
	}{
		{models.RoleUser, true, true, false},
		{models.RoleTeacher, true, true, true},
		{models.RoleSuperadmin, true, false, true},
		{"admin", false, false, false},
		{"", false, false, false},
		{"User", false, false, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.role, func(t *testing.T) {
			if got := IsValidRole(tc.role); got != tc.valid {
				t.Errorf("IsValidRole(%q) = %v, want %v", tc.role, got, tc.valid)
			}
			if got := IsValidRegistrationRole(tc.role); got != tc.registerable {
				t.Errorf("IsValidRegistrationRole(%q) = %v, want %v", tc.role, got, tc.registerable)
			}
			if got := IsStaffRole(tc.role); got != tc.staff {
				t.Errorf("IsStaffRole(%q) = %v, want %v", tc.role, got, tc.staff)
			}
		})
	}
}

func TestIsValidSubjectStatus(t *testing.T) {
	for _, status := range []string{models.StatusPresent, models.StatusAbsent, models.StatusLate} {
		if !IsValidSubjectStatus(status) {
			t.Errorf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "Present", "excused", "PRESENT"} {
		if IsValidSubjectStatus(status) {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain date", input: "2024-03-15", want: "2024-03-15"},
		{name: "padded", input: "  2024-03-15 ", want: "2024-03-15"},
		{name: "rfc3339 utc", input: "2024-03-15T10:30:00Z", want: "2024-03-15"},
		{name: "rfc3339 offset crossing midnight", input: "2024-03-16T01:30:00+07:00", want: "2024-03-15"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("got %s, want %s", got.Format("2006-01-02"), tc.want)
			}
			if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
				t.Fatalf("expected day granularity, got %02d:%02d:%02d", h, m, s)
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "15/03/2024", "yesterday", "2024-13-40"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Tue Mar 05 2024" {
		t.Fatalf("got %q, want %q", got, "Tue Mar 05 2024")
	}
}
