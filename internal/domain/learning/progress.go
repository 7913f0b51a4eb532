package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// UserProgress tracks one user's status toward a course (LessonID nil) or one lesson of it.
// At most one row exists per (user, course, lesson) key.
type UserProgress struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_key,priority:1;index" json:"user_id"`
	CourseID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_key,priority:2" json:"course_id"`
	LessonID             *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_user_progress_key,priority:3" json:"lesson_id"`
	Status               ProgressStatus `gorm:"column:status;type:varchar(16);not null;default:'not_started'" json:"status"`
	CompletionPercentage float64        `gorm:"column:completion_percentage;not null;default:0;check:chk_user_progress_pct,completion_percentage >= 0 AND completion_percentage <= 100" json:"completion_percentage"`
	XPEarned             int            `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	StartedAt            *time.Time     `gorm:"column:started_at" json:"started_at"`
	CompletedAt          *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	UpdatedAt            time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsCourseLevel reports whether the row tracks the course as a whole.
func (p *UserProgress) IsCourseLevel() bool { return p.LessonID == nil }
