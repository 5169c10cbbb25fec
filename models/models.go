package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Roles
const (
	RoleUser       = "user"
	RoleTeacher    = "teacher"
	RoleSuperadmin = "superadmin"
)

// Attendance subject statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// Notification types
const (
	NotificationUserRegistration = "user_registration"
	NotificationAttendanceUpdate = "attendance_update"
	NotificationFeedbackReceived = "feedback_received"
	NotificationFeedbackReply    = "feedback_reply"
)

// Base model with common fields. Records are hard-deleted, so no DeletedAt.
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var s []byte
	switch v := value.(type) {
	case []byte:
		s = v
	case string:
		s = []byte(v)
	default:
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// StringList is a JSON-encoded list of strings stored in a json column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(b, l)
}

// SubjectEntry is one subject row inside an attendance record.
type SubjectEntry struct {
	SubjectName string `json:"subjectName"`
	Status      string `json:"status"` // present, absent, late
	Marks       int    `json:"marks"`
	Feedback    string `json:"feedback"`
}

// SubjectEntries is the ordered subject list of an attendance record,
// stored as a single json column and replaced wholesale on update.
type SubjectEntries []SubjectEntry

func (s SubjectEntries) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SubjectEntries) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SubjectEntries", value)
	}
	return json.Unmarshal(b, s)
}

// User model
type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password     string     `json:"-" gorm:"size:255"`
	GoogleID     string     `json:"-" gorm:"size:255;index"`
	Role         string     `json:"role" gorm:"size:50;not null;default:'user';type:enum('user','teacher','superadmin')"` // user, teacher, superadmin
	IsApproved   bool       `json:"isApproved" gorm:"default:false"`
	ProfileImage string     `json:"profileImage,omitempty" gorm:"size:500"`
	Subjects     StringList `json:"subjects" gorm:"type:json"`
}

// IsStaff reports whether the user holds a teacher or superadmin role.
func (u *User) IsStaff() bool {
	return u.Role == RoleTeacher || u.Role == RoleSuperadmin
}

// Attendance model. The composite unique index on (user_id, date) closes the
// duplicate-day window between the existence check and the insert.
type Attendance struct {
	BaseModel
	UserID      uint           `json:"userId" gorm:"not null;uniqueIndex:idx_attendance_user_date,priority:1"`
	Date        time.Time      `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date,priority:2"`
	Subjects    SubjectEntries `json:"subjects" gorm:"type:json"`
	CreatedByID uint           `json:"createdById" gorm:"not null"`

	// Relationships
	User      User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedBy User `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
}

// Feedback model: a conversation thread rooted at one message, tied to one
// attendance record.
type Feedback struct {
	BaseModel
	UserID       uint   `json:"userId" gorm:"not null;index"`
	AttendanceID uint   `json:"attendanceId" gorm:"not null;index"`
	Subject      string `json:"subject" gorm:"size:255;not null"`
	Message      string `json:"message" gorm:"type:text;not null"`
	Image        string `json:"image,omitempty" gorm:"size:500"`
	SentByID     uint   `json:"sentById" gorm:"not null"`
	SentByRole   string `json:"sentByRole" gorm:"size:50;not null;type:enum('user','teacher','superadmin')"`

	// Relationships
	User       User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Attendance Attendance      `json:"attendance,omitempty" gorm:"foreignKey:AttendanceID"`
	SentBy     User            `json:"sentBy,omitempty" gorm:"foreignKey:SentByID"`
	Replies    []FeedbackReply `json:"replies" gorm:"foreignKey:FeedbackID"`
}

// FeedbackReply rows are append-only, ordered by creation.
type FeedbackReply struct {
	BaseModel
	FeedbackID uint   `json:"feedbackId" gorm:"not null;index"`
	Message    string `json:"message" gorm:"type:text;not null"`
	Image      string `json:"image,omitempty" gorm:"size:500"`
	SentByID   uint   `json:"sentById" gorm:"not null"`
	SentByRole string `json:"sentByRole" gorm:"size:50;not null;type:enum('user','teacher','superadmin')"`

	// Relationships
	SentBy User `json:"sentBy,omitempty" gorm:"foreignKey:SentByID"`
}

// Notification model. Created only as a side effect of mutations elsewhere;
// mutated only by the recipient (read flag); never deleted.
type Notification struct {
	BaseModel
	RecipientID uint   `json:"recipientId" gorm:"not null;index"`
	SenderID    uint   `json:"senderId" gorm:"not null"`
	Type        string `json:"type" gorm:"size:50;not null;type:enum('user_registration','attendance_update','feedback_received','feedback_reply')"`
	Message     string `json:"message" gorm:"type:text;not null"`
	Data        JSON   `json:"data,omitempty" gorm:"type:json"`
	IsRead      bool   `json:"isRead" gorm:"default:false"`

	// Relationships
	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// ActivityLog model for request activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"userId"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resourceId"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ipAddress" gorm:"size:45"`
	UserAgent  string `json:"userAgent" gorm:"size:500"`
}
