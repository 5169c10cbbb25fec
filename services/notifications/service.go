package notifications

import (
	"encoding/json"
	"errors"

	"classpulse_go/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service persists one notification per interested party when a record or
// thread mutation occurs. Delivery is best-effort: the batch insert is not
// atomic across recipients and failures are not retried.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Notify writes one notification row per recipient.
func (s *Service) Notify(recipientIDs []uint, senderID uint, notifType, message string, data interface{}) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	var dataJSON models.JSON
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		dataJSON = b
	}

	notifs := make([]models.Notification, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		notifs = append(notifs, models.Notification{
			RecipientID: rid,
			SenderID:    senderID,
			Type:        notifType,
			Message:     message,
			Data:        dataJSON,
			IsRead:      false,
		})
	}

	return s.db.Create(&notifs).Error
}

// NotifyStaff fans a notification out to every teacher and superadmin.
func (s *Service) NotifyStaff(senderID uint, notifType, message string, data interface{}) error {
	staffIDs, err := s.StaffIDs()
	if err != nil {
		return err
	}
	return s.Notify(staffIDs, senderID, notifType, message, data)
}

// StaffIDs returns the ids of all teacher and superadmin accounts.
func (s *Service) StaffIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.User{}).
		Where("role IN ?", []string{models.RoleTeacher, models.RoleSuperadmin}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// BestEffort logs a fan-out failure instead of propagating it. Callers use it
// when the primary write already succeeded and the notification is a side
// effect that must not fail the operation.
func BestEffort(err error) {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	logrus.WithError(err).Warn("notification fan-out failed")
}
