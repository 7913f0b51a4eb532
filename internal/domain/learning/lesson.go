package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID            uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course              *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Title               string    `gorm:"column:title;not null" json:"title"`
	Content             string    `gorm:"column:content;type:text;not null" json:"content"`
	CodeTemplate        *string   `gorm:"column:code_template;type:text" json:"code_template"`
	ProgrammingLanguage *string   `gorm:"column:programming_language" json:"programming_language"`
	XPReward            int       `gorm:"column:xp_reward;not null;default:10" json:"xp_reward"`
	OrderIndex          int       `gorm:"column:order_index;not null;default:0" json:"order_index"`
	IsPublished         bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
