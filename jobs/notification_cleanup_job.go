// File: /jobs/notification_cleanup_job.go
package jobs

import (
	"fmt"
	"gorm.io/gorm"
	"sectornet-api/models"
	"time"
)

const notificationRetention = 30 * 24 * time.Hour

// NotificationCleanupJob handles periodic pruning of stale read notifications
type NotificationCleanupJob struct {
	db     *gorm.DB
	ticker *time.Ticker
	done   chan bool
}

// NewNotificationCleanupJob creates a new notification cleanup job
func NewNotificationCleanupJob(db *gorm.DB, interval time.Duration) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		db:     db,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *NotificationCleanupJob) Start() {
	fmt.Println("Notification cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Notification cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *NotificationCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

// cleanup deletes read notifications past the retention window
func (j *NotificationCleanupJob) cleanup() {
	cutoff := time.Now().Add(-notificationRetention)

	result := j.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		fmt.Printf("Error during notification cleanup: %v\n", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		fmt.Printf("Notification cleanup removed %d notifications\n", result.RowsAffected)
	}
}
