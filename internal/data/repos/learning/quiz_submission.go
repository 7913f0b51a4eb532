package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

// QuizStats aggregates a user's submissions.
type QuizStats struct {
	Count        int64
	AverageScore float64
}

type QuizSubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *types.QuizSubmission) error
	StatsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (QuizStats, error)
	ListCompletedAtByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error)
	ListByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) ([]*types.QuizSubmission, error)
}

type quizSubmissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) QuizSubmissionRepo {
	repoLog := baseLog.With("repo", "QuizSubmissionRepo")
	return &quizSubmissionRepo{db: db, log: repoLog}
}

func (r *quizSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.QuizSubmission) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(submission).Error
}

func (r *quizSubmissionRepo) StatsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (QuizStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row struct {
		Count   int64
		Average *float64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.QuizSubmission{}).
		Select("COUNT(*) AS count, AVG(score) AS average").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return QuizStats{}, err
	}
	out := QuizStats{Count: row.Count}
	if row.Average != nil {
		out.AverageScore = *row.Average
	}
	return out, nil
}

func (r *quizSubmissionRepo) ListCompletedAtByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.QuizSubmission
	if err := transaction.WithContext(ctx).
		Select("completed_at").
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, s := range rows {
		out = append(out, s.CompletedAt)
	}
	return out, nil
}

func (r *quizSubmissionRepo) ListByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) ([]*types.QuizSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizSubmission
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("completed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
