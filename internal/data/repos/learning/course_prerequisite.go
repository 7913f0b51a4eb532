package learning

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type CoursePrerequisiteRepo interface {
	// Upsert inserts missing edges and ignores ones already declared.
	Upsert(ctx context.Context, tx *gorm.DB, edges []*types.CoursePrerequisite) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CoursePrerequisite, error)
}

type coursePrerequisiteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoursePrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) CoursePrerequisiteRepo {
	repoLog := baseLog.With("repo", "CoursePrerequisiteRepo")
	return &coursePrerequisiteRepo{db: db, log: repoLog}
}

func (r *coursePrerequisiteRepo) Upsert(ctx context.Context, tx *gorm.DB, edges []*types.CoursePrerequisite) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(edges) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "prerequisite_course_id"}},
			DoNothing: true,
		}).
		Create(&edges).Error
}

func (r *coursePrerequisiteRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CoursePrerequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CoursePrerequisite
	if err := transaction.WithContext(ctx).
		Order("course_id ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
