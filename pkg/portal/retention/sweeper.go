package retention

import (
	"log"
	"time"

	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Sweeper closes grievances that have sat in the resolved state past the
// configured number of days.
type Sweeper struct {
	db   *gorm.DB
	days int
	cron *cron.Cron
}

// NewSweeper creates a sweeper. A non-positive days value disables it.
func NewSweeper(db *gorm.DB, days int) *Sweeper {
	return &Sweeper{db: db, days: days}
}

// Start schedules a daily sweep
func (s *Sweeper) Start() {
	if s.days <= 0 {
		log.Println("Retention sweeper disabled")
		return
	}

	s.cron = cron.New()
	s.cron.AddFunc("@daily", func() {
		if err := s.Sweep(); err != nil {
			log.Printf("Retention sweep failed: %v", err)
		}
	})
	s.cron.Start()
	log.Printf("Retention sweeper started, closing grievances resolved more than %d days ago", s.days)
}

// Stop stops the scheduled sweeps
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep closes all resolved grievances whose last update is older than the
// cutoff. Revisions are bumped so concurrent reviewer updates still conflict.
func (s *Sweeper) Sweep() error {
	cutoff := time.Now().AddDate(0, 0, -s.days)
	result := s.db.Model(&models.Grievance{}).
		Where("status = ? AND updated_at < ?", models.StatusResolved, cutoff).
		Updates(map[string]interface{}{
			"status":   models.StatusClosed,
			"revision": gorm.Expr("revision + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Retention sweep closed %d resolved grievances", result.RowsAffected)
	}
	return nil
}
