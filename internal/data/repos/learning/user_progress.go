package learning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error
	Save(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error
	// Find returns the row keyed by (user, course, lesson); a nil lessonID selects the
	// course-level row. Missing rows yield nil without error.
	Find(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, lessonID *uuid.UUID) (*types.UserProgress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	ListCourseLevelByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	ListCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	ListUpdatedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserProgress, error)
	CountCompletedLessons(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountCompletedCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// CountPublishedCoursesByStatus counts course-level rows of published courses in status.
	CountPublishedCoursesByStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status types.ProgressStatus) (int64, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(progress).Error
}

func (r *userProgressRepo) Save(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(progress).Error
}

func (r *userProgressRepo) Find(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, lessonID *uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID)
	if lessonID == nil {
		q = q.Where("lesson_id IS NULL")
	} else {
		q = q.Where("lesson_id = ?", *lessonID)
	}
	var p types.UserProgress
	err := q.Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) ListCourseLevelByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IS NULL", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) ListCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.StatusCompleted).
		Order("updated_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) ListUpdatedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND updated_at >= ?", userID, since).
		Order("updated_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) CountCompletedLessons(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND status = ? AND lesson_id IS NOT NULL", userID, types.StatusCompleted).
		Distinct("lesson_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userProgressRepo) CountCompletedCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND status = ? AND lesson_id IS NULL", userID, types.StatusCompleted).
		Distinct("course_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userProgressRepo) CountPublishedCoursesByStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status types.ProgressStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Joins("JOIN course ON course.id = user_progress.course_id").
		Where("user_progress.user_id = ? AND user_progress.lesson_id IS NULL", userID).
		Where("user_progress.status = ? AND course.is_published = ?", status, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
