package gamification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type UserAchievementRepo interface {
	// CreateIfAbsent reports whether a new row was written; an existing
	// (user, achievement) pair is left untouched.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, ua *types.UserAchievement) (bool, error)
	ListEarnedIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	// ListByUser returns earned rows newest first with the achievement preloaded.
	// limit <= 0 returns everything.
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserAchievement, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	repoLog := baseLog.With("repo", "UserAchievementRepo")
	return &userAchievementRepo{db: db, log: repoLog}
}

func (r *userAchievementRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, ua *types.UserAchievement) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Omit("Achievement").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(ua)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userAchievementRepo) ListEarnedIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.UserAchievement
	if err := transaction.WithContext(ctx).
		Select("achievement_id").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.AchievementID)
	}
	return out, nil
}

func (r *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.UserAchievement
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
