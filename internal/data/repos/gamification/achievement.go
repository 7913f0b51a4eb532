package gamification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type AchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) ([]*types.Achievement, error)
	Save(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) error
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Achievement, error)
	// ListActive returns the active catalog ordered by category then creation time.
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (r *achievementRepo) Create(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(achievements) == 0 {
		return []*types.Achievement{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

// Save writes every column; use it to persist is_active=false, which Create
// replaces with the column default.
func (r *achievementRepo) Save(ctx context.Context, tx *gorm.DB, achievement *types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(achievement).Error
}

func (r *achievementRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.Achievement
	err := transaction.WithContext(ctx).Where("name = ?", name).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *achievementRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category ASC").
		Order("created_at ASC").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
