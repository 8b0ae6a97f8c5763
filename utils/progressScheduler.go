package utils

import (
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler sets up the learning reminder scheduler
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 9 AM IST to nudge stale learners
	c.AddFunc("0 9 * * *", func() {
		log.Println("[PROGRESS-SCHEDULER] Running daily progress check...")
		ProcessStaleEnrollments()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 9 AM IST")
}

// ProcessStaleEnrollments sends reminder emails for enrollments with no
// activity for a week. The one-day window keeps reminders from repeating.
func ProcessStaleEnrollments() {
	db := database.Database.Db

	windowEnd := now.BeginningOfDay().AddDate(0, 0, -7)
	windowStart := windowEnd.AddDate(0, 0, -1)

	var staleEnrollments []courseModels.Enrollment
	if err := db.
		Where("status = ? AND is_deleted = ?", "IN_PROGRESS", false).
		Where("updated_at BETWEEN ? AND ?", windowStart, windowEnd).
		Find(&staleEnrollments).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching stale enrollments: %v", err)
		return
	}

	log.Printf("[PROGRESS-SCHEDULER] Found %d stale enrollments", len(staleEnrollments))

	for _, enrollment := range staleEnrollments {
		// Get user details
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error fetching user %d: %v", enrollment.UserID, err)
			continue
		}

		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).First(&course).Error; err != nil {
			continue
		}

		if user.Email == "" {
			continue
		}

		if err := SendProgressReminderEmail(user.Email, user.Name, course.Title, enrollment.Progress); err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error sending reminder to %s: %v", user.Email, err)
			continue
		}

		log.Printf("[PROGRESS-SCHEDULER] Sent progress reminder for enrollment %d to %s", enrollment.ID, user.Email)
	}
}
