package utils

import (
	"time"

	"classpulse_go/models"
)

// Compact representations used across APIs

// UserDTO is the public projection of an account. It never carries the
// password hash or the Google subject id.
type UserDTO struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	IsApproved   bool              `json:"isApproved"`
	ProfileImage string            `json:"profileImage,omitempty"`
	Subjects     models.StringList `json:"subjects"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// UserRef identifies a related account inside another payload.
type UserRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type AttendanceDTO struct {
	ID        uint                  `json:"id"`
	UserID    uint                  `json:"userId"`
	Date      string                `json:"date"`
	Subjects  models.SubjectEntries `json:"subjects"`
	CreatedBy UserRef               `json:"createdBy"`
	User      *UserRef              `json:"user,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

type ReplyDTO struct {
	ID         uint      `json:"id"`
	Message    string    `json:"message"`
	Image      string    `json:"image,omitempty"`
	SentBy     UserRef   `json:"sentBy"`
	SentByRole string    `json:"sentByRole"`
	CreatedAt  time.Time `json:"createdAt"`
}

type FeedbackDTO struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"userId"`
	Attendance *AttendanceDTO `json:"attendance,omitempty"`
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Image      string         `json:"image,omitempty"`
	SentBy     UserRef        `json:"sentBy"`
	SentByRole string         `json:"sentByRole"`
	User       *UserRef       `json:"user,omitempty"`
	Replies    []ReplyDTO     `json:"replies"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type NotificationDTO struct {
	ID        uint        `json:"id"`
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      models.JSON `json:"data,omitempty"`
	IsRead    bool        `json:"isRead"`
	Sender    UserRef     `json:"sender"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToUserDTO maps a models.User to its public projection.
func ToUserDTO(u models.User) UserDTO {
	subjects := u.Subjects
	if subjects == nil {
		subjects = models.StringList{}
	}
	return UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		IsApproved:   u.IsApproved,
		ProfileImage: u.ProfileImage,
		Subjects:     subjects,
		CreatedAt:    u.CreatedAt,
	}
}

// ToUserDTOs maps a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}

func toUserRef(u models.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Role: u.Role}
}

// ToAttendanceDTO maps an attendance record. includeUser controls whether the
// owning account is embedded (staff listings resolve it, own listings do not).
// Assumes the caller preloaded CreatedBy, and User when includeUser is set.
func ToAttendanceDTO(a models.Attendance, includeUser bool) AttendanceDTO {
	subjects := a.Subjects
	if subjects == nil {
		subjects = models.SubjectEntries{}
	}
	dto := AttendanceDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Date:      a.Date.Format("2006-01-02"),
		Subjects:  subjects,
		CreatedBy: toUserRef(a.CreatedBy),
		CreatedAt: a.CreatedAt,
	}
	if includeUser {
		ref := toUserRef(a.User)
		dto.User = &ref
	}
	return dto
}

// ToFeedbackDTO maps a feedback thread with its replies resolved. Assumes the
// caller preloaded Attendance (with CreatedBy), SentBy, Replies and
// Replies.SentBy, plus User when includeUser is set.
func ToFeedbackDTO(f models.Feedback, includeUser bool) FeedbackDTO {
	replies := make([]ReplyDTO, 0, len(f.Replies))
	for _, r := range f.Replies {
		replies = append(replies, ReplyDTO{
			ID:         r.ID,
			Message:    r.Message,
			Image:      r.Image,
			SentBy:     toUserRef(r.SentBy),
			SentByRole: r.SentByRole,
			CreatedAt:  r.CreatedAt,
		})
	}

	dto := FeedbackDTO{
		ID:         f.ID,
		UserID:     f.UserID,
		Subject:    f.Subject,
		Message:    f.Message,
		Image:      f.Image,
		SentBy:     toUserRef(f.SentBy),
		SentByRole: f.SentByRole,
		Replies:    replies,
		CreatedAt:  f.CreatedAt,
	}
	if f.Attendance.ID != 0 {
		att := ToAttendanceDTO(f.Attendance, false)
		dto.Attendance = &att
	}
	if includeUser {
		ref := toUserRef(f.User)
		dto.User = &ref
	}
	return dto
}

// ToNotificationDTO maps a notification with its sender resolved.
// Assumes the caller preloaded Sender.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		Sender:    toUserRef(n.Sender),
		CreatedAt: n.CreatedAt,
	}
}
