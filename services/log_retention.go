package services

import (
	"time"

	"classpulse_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogRetentionService prunes old activity log rows on a nightly schedule.
// It touches only the operational audit log, never domain data.
type LogRetentionService struct {
	db   *gorm.DB
	days int
	cron *cron.Cron
}

func NewLogRetentionService(db *gorm.DB, retentionDays int) *LogRetentionService {
	return &LogRetentionService{
		db:   db,
		days: retentionDays,
		cron: cron.New(),
	}
}

// Start schedules the nightly prune at 03:00.
func (s *LogRetentionService) Start() {
	if _, err := s.cron.AddFunc("0 3 * * *", s.prune); err != nil {
		logrus.WithError(err).Error("Failed to schedule activity log retention")
		return
	}
	s.cron.Start()
	logrus.WithField("retention_days", s.days).Info("Activity log retention scheduler started")
}

// Stop halts the scheduler.
func (s *LogRetentionService) Stop() {
	s.cron.Stop()
}

func (s *LogRetentionService) prune() {
	cutoff := time.Now().AddDate(0, 0, -s.days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Activity log prune failed")
		return
	}
	if result.RowsAffected > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted": result.RowsAffected,
			"cutoff":  cutoff.Format("2006-01-02"),
		}).Info("Pruned old activity logs")
	}
}
