package gamification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryMilestone        Category = "milestone"
	CategoryQuizMaster       Category = "quiz_master"
	CategoryStreak           Category = "streak"
	CategoryCourseCompletion Category = "course_completion"
	CategorySpecial          Category = "special"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMilestone, CategoryQuizMaster, CategoryStreak, CategoryCourseCompletion, CategorySpecial:
		return true
	}
	return false
}

type CriteriaKind string

const (
	CriteriaLessonsCompletedAtLeast CriteriaKind = "lessons_completed_at_least"
	CriteriaCoursesCompletedAtLeast CriteriaKind = "courses_completed_at_least"
)

func (k CriteriaKind) Valid() bool {
	return k == CriteriaLessonsCompletedAtLeast || k == CriteriaCoursesCompletedAtLeast
}

// Criteria is the structured unlock condition of an achievement.
type Criteria struct {
	Kind      CriteriaKind `gorm:"column:kind;type:varchar(48)" json:"kind"`
	Threshold int          `gorm:"column:threshold;not null;default:0" json:"threshold"`
}

type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	BadgeIcon   string    `gorm:"column:badge_icon;not null" json:"badge_icon"`
	BadgeColor  string    `gorm:"column:badge_color;not null" json:"badge_color"`
	XPReward    int       `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	Category    Category  `gorm:"column:category;type:varchar(24);not null;index" json:"category"`
	Criteria    Criteria  `gorm:"embedded;embeddedPrefix:criteria_" json:"criteria"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement_pair,priority:1" json:"user_id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement_pair,priority:2" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	EarnedAt      time.Time    `gorm:"column:earned_at;not null;index" json:"earned_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	if ua.EarnedAt.IsZero() {
		ua.EarnedAt = time.Now().UTC()
	}
	return nil
}
