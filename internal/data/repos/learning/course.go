package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
	Save(ctx context.Context, tx *gorm.DB, course *types.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetPublishedByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Course, error)
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	CountPublished(ctx context.Context, tx *gorm.DB) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Save writes every column, including zero values such as is_published=false.
func (r *courseRepo) Save(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeCourse(transaction.WithContext(ctx).Where("id = ?", id))
}

func (r *courseRepo) GetPublishedByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeCourse(transaction.WithContext(ctx).Where("id = ? AND is_published = ?", id, true))
}

func (r *courseRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return takeCourse(transaction.WithContext(ctx).Where("title = ?", title).Order("created_at ASC"))
}

func (r *courseRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Where("is_published = ?", true).
		Order("order_index ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) CountPublished(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("is_published = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func takeCourse(q *gorm.DB) (*types.Course, error) {
	var c types.Course
	err := q.Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
