package models

import (
	"encoding/json"
	"testing"
)

func TestJSONValueAndScan(t *testing.T) {
	var j JSON
	if v, err := j.Value(); err != nil || v != nil {
		t.Fatalf("empty JSON should value as nil, got %v, %v", v, err)
	}

	j = JSON(`{"a":1}`)
	v, err := j.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != `{"a":1}` {
		t.Fatalf("value = %v", v)
	}

	var scanned JSON
	if err := scanned.Scan([]byte(`{"b":2}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(scanned) != `{"b":2}` {
		t.Fatalf("scanned = %s", scanned)
	}

	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scanned != nil {
		t.Fatal("scanning nil should reset the value")
	}
}

func TestJSONIsNull(t *testing.T) {
	tests := []struct {
		name string
		j    JSON
		want bool
	}{
		{"nil", nil, true},
		{"empty", JSON(""), true},
		{"literal null", JSON("null"), true},
		{"object", JSON(`{}`), false},
	}
	for _, tc := range tests {
		if got := tc.j.IsNull(); got != tc.want {
			t.Errorf("%s: IsNull() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestJSONMarshal(t *testing.T) {
	type wrapper struct {
		Data JSON `json:"data"`
	}

	b, err := json.Marshal(wrapper{Data: JSON(`{"userId":7}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"data":{"userId":7}}` {
		t.Fatalf("got %s", b)
	}

	b, err = json.Marshal(wrapper{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"data":null}` {
		t.Fatalf("got %s", b)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"math", "science"}
	v, err := list.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var scanned StringList
	if err := scanned.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "math" || scanned[1] != "science" {
		t.Fatalf("scanned = %v", scanned)
	}
}

func TestStringListNilValue(t *testing.T) {
	var list StringList
	v, err := list.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "[]" {
		t.Fatalf("nil list should store as empty array, got %v", v)
	}
}

func TestSubjectEntriesRoundTrip(t *testing.T) {
	entries := SubjectEntries{
		{SubjectName: "math", Status: StatusPresent, Marks: 85, Feedback: "good"},
		{SubjectName: "science", Status: StatusLate},
	}

	v, err := entries.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var scanned SubjectEntries
	if err := scanned.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 2 {
		t.Fatalf("scanned %d entries, want 2", len(scanned))
	}
	if scanned[0].SubjectName != "math" || scanned[0].Marks != 85 {
		t.Fatalf("first entry = %+v", scanned[0])
	}
	if scanned[1].Status != StatusLate {
		t.Fatalf("second entry = %+v", scanned[1])
	}
}

func TestSubjectEntriesScanInvalidType(t *testing.T) {
	var entries SubjectEntries
	if err := entries.Scan(42); err == nil {
		t.Fatal("expected error scanning a non-bytes value")
	}
}

func TestUserIsStaff(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleUser, false},
		{RoleTeacher, true},
		{RoleSuperadmin, true},
		{"", false},
	}
	for _, tc := range tests {
		u := User{Role: tc.role}
		if got := u.IsStaff(); got != tc.want {
			t.Errorf("IsStaff() with role %q = %v, want %v", tc.role, got, tc.want)
		}
	}
}
