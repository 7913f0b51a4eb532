package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	Save(ctx context.Context, tx *gorm.DB, question *types.QuizQuestion) error
	ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.QuizQuestion, error)
	GetByLessonAndOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, orderIndex int) (*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	repoLog := baseLog.With("repo", "QuizQuestionRepo")
	return &quizQuestionRepo{db: db, log: repoLog}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return []*types.QuizQuestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizQuestionRepo) Save(ctx context.Context, tx *gorm.DB, question *types.QuizQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(question).Error
}

// ListByLesson returns questions in display order; answers are graded positionally against it.
func (r *quizQuestionRepo) ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizQuestion
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("order_index ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) GetByLessonAndOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, orderIndex int) (*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var q types.QuizQuestion
	err := transaction.WithContext(ctx).
		Where("lesson_id = ? AND order_index = ?", lessonID, orderIndex).
		Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}
