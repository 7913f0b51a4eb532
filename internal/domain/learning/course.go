package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Rank orders difficulty tiers for the roadmap; unknown values sort with beginner.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2
	default:
		return 0
	}
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Course struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title                  string     `gorm:"column:title;not null" json:"title"`
	Description            string     `gorm:"column:description;type:text;not null" json:"description"`
	DifficultyLevel        Difficulty `gorm:"column:difficulty_level;type:varchar(16);not null" json:"difficulty_level"`
	EstimatedDurationHours float64    `gorm:"column:estimated_duration_hours;not null" json:"estimated_duration_hours"`
	ThumbnailURL           *string    `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	IsPublished            bool       `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	OrderIndex             int        `gorm:"column:order_index;not null;default:0" json:"order_index"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CoursePrerequisite is a declared edge course -> prerequisite course.
type CoursePrerequisite struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_prerequisite_pair" json:"course_id"`
	Course               *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	PrerequisiteCourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_prerequisite_pair" json:"prerequisite_course_id"`
	PrerequisiteCourse   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:PrerequisiteCourseID;references:ID" json:"-"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
}

func (CoursePrerequisite) TableName() string { return "course_prerequisite" }

func (p *CoursePrerequisite) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
