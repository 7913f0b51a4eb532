package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureProgressIndexes(db)
}

// EnsureProgressIndexes adds the indexes AutoMigrate cannot express.
func EnsureProgressIndexes(db *gorm.DB) error {
	// NULL lesson_id never collides in the composite unique index, so course-level
	// rows need their own partial index to stay unique per (user, course).
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_progress_course_level
		ON user_progress (user_id, course_id)
		WHERE lesson_id IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_progress_course_level: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_submission_user_lesson
		ON quiz_submission (user_id, lesson_id, completed_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_submission_user_lesson: %w", err)
	}
	return nil
}
