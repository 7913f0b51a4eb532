package services

import (
	"context"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/learning/achievements"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

// AchievementUnlockedEvent is the payload of achievement_unlocked.
type AchievementUnlockedEvent struct {
	Achievement *types.Achievement `json:"achievement"`
}

type AchievementService interface {
	ListAchievements(ctx context.Context) ([]*types.Achievement, error)
	ListUserAchievements(ctx context.Context) ([]*types.UserAchievement, error)
	// CheckAndAward grants every eligible, unearned achievement to u inside dbc.Tx and
	// credits its xp_reward. It returns the newly unlocked achievements and the XP they
	// added. The XP it grants never triggers another check.
	CheckAndAward(dbc dbctx.Context, u *types.User) ([]*types.Achievement, int, error)
}

type achievementService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
	progressRepo        repos.UserProgressRepo
	ledger              xpLedger
}

func NewAchievementService(
	db *gorm.DB,
	log *logger.Logger,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
	progressRepo repos.UserProgressRepo,
	userRepo repos.UserRepo,
) AchievementService {
	serviceLog := log.With("service", "AchievementService")
	return &achievementService{
		db:                  db,
		log:                 serviceLog,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		progressRepo:        progressRepo,
		ledger:              xpLedger{userRepo: userRepo},
	}
}

func (as *achievementService) ListAchievements(ctx context.Context) ([]*types.Achievement, error) {
	list, err := as.achievementRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, dataagg.MapError("Achievement.List", err)
	}
	return list, nil
}

func (as *achievementService) ListUserAchievements(ctx context.Context) ([]*types.UserAchievement, error) {
	const op = "Achievement.ListForUser"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	list, err := as.userAchievementRepo.ListByUser(ctx, nil, userID, 0)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return list, nil
}

func (as *achievementService) CheckAndAward(dbc dbctx.Context, u *types.User) ([]*types.Achievement, int, error) {
	lessons, err := as.progressRepo.CountCompletedLessons(dbc.Ctx, dbc.Tx, u.ID)
	if err != nil {
		return nil, 0, err
	}
	courses, err := as.progressRepo.CountCompletedCourses(dbc.Ctx, dbc.Tx, u.ID)
	if err != nil {
		return nil, 0, err
	}
	catalog, err := as.achievementRepo.ListActive(dbc.Ctx, dbc.Tx)
	if err != nil {
		return nil, 0, err
	}
	earned, err := as.userAchievementRepo.ListEarnedIDs(dbc.Ctx, dbc.Tx, u.ID)
	if err != nil {
		return nil, 0, err
	}

	stats := achievements.Stats{LessonsCompleted: int(lessons), CoursesCompleted: int(courses)}
	unlocked := []*types.Achievement{}
	gained := 0
	for _, a := range achievements.Eligible(catalog, earned, stats) {
		created, err := as.userAchievementRepo.CreateIfAbsent(dbc.Ctx, dbc.Tx, &types.UserAchievement{
			UserID:        u.ID,
			AchievementID: a.ID,
		})
		if err != nil {
			return nil, 0, err
		}
		if !created {
			continue
		}
		award, err := as.ledger.award(dbc, u, a.XPReward)
		if err != nil {
			return nil, 0, err
		}
		gained += award.TotalXP - award.PreviousXP
		unlocked = append(unlocked, a)
	}
	if len(unlocked) > 0 {
		as.log.Info("achievements unlocked", "user_id", u.ID, "count", len(unlocked), "xp", gained)
	}
	return unlocked, gained, nil
}
