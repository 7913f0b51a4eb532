package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinQuizOptions = 2
	MaxQuizOptions = 6
)

type QuizQuestion struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID           uuid.UUID                   `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson             *Lesson                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`
	QuestionText       string                      `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Options            datatypes.JSONSlice[string] `gorm:"column:options;not null" json:"options"`
	CorrectAnswerIndex int                         `gorm:"column:correct_answer_index;not null" json:"correct_answer_index"`
	Explanation        *string                     `gorm:"column:explanation;type:text" json:"explanation"`
	OrderIndex         int                         `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt          time.Time                   `gorm:"not null" json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuizSubmission is written once per submitted answer set and never updated.
type QuizSubmission struct {
	ID          uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                `gorm:"type:uuid;not null;index" json:"user_id"`
	LessonID    uuid.UUID                `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Answers     datatypes.JSONSlice[int] `gorm:"column:answers;not null" json:"answers"`
	Score       float64                  `gorm:"column:score;not null;check:chk_quiz_submission_score,score >= 0 AND score <= 1" json:"score"`
	CompletedAt time.Time                `gorm:"column:completed_at;not null;index" json:"completed_at"`
}

func (QuizSubmission) TableName() string { return "quiz_submission" }

func (s *QuizSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CompletedAt.IsZero() {
		s.CompletedAt = time.Now().UTC()
	}
	return nil
}
