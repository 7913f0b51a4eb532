package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	Save(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	GetPublishedByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	GetByCourseAndTitle(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string) (*types.Lesson, error)
	ListPublishedByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error)
	// ListRecommended returns published lessons of published courses the user has not
	// completed at course level, in course then lesson order.
	ListRecommended(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) Save(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeLesson(transaction.WithContext(ctx).Where("id = ?", id))
}

func (r *lessonRepo) GetPublishedByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeLesson(transaction.WithContext(ctx).Where("id = ? AND is_published = ?", id, true))
}

func (r *lessonRepo) GetByCourseAndTitle(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeLesson(transaction.WithContext(ctx).Where("course_id = ? AND title = ?", courseID, title))
}

func (r *lessonRepo) ListPublishedByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("order_index ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListRecommended(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if limit <= 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Select("lesson.*").
		Joins("JOIN course ON course.id = lesson.course_id").
		Joins("LEFT JOIN user_progress up ON up.course_id = course.id AND up.user_id = ? AND up.lesson_id IS NULL", userID).
		Where("lesson.is_published = ? AND course.is_published = ?", true, true).
		Where("(up.id IS NULL OR up.status IN ?)", []types.ProgressStatus{types.StatusNotStarted, types.StatusInProgress}).
		Order("course.order_index ASC").
		Order("lesson.order_index ASC").
		Order("lesson.id ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func takeLesson(q *gorm.DB) (*types.Lesson, error) {
	var l types.Lesson
	err := q.Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
