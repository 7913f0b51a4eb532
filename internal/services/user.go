package services

import (
	"context"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/learning/leveling"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type MeResult struct {
	User          *types.User `json:"user"`
	LevelProgress float64     `json:"level_progress"`
}

type UserService interface {
	GetMe(ctx context.Context) (*MeResult, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*MeResult, error) {
	const op = "User.Me"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, msgUserNotFound)
	}
	return &MeResult{
		User:          u,
		LevelProgress: leveling.XPProgressWithinLevel(u.TotalXP, u.CurrentLevel),
	}, nil
}
