package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/learning/leveling"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const (
	recentAchievementsLimit = 5
	recommendedLessonsLimit = 3
)

type OverallProgress struct {
	TotalCourses      int64   `json:"total_courses"`
	CompletedCourses  int64   `json:"completed_courses"`
	InProgressCourses int64   `json:"in_progress_courses"`
	TotalXP           int     `json:"total_xp"`
	CurrentLevel      int     `json:"current_level"`
	LevelProgress     float64 `json:"level_progress"`
}

type DashboardData struct {
	User               *types.User              `json:"user"`
	RecentAchievements []*types.UserAchievement `json:"recent_achievements"`
	Progress           OverallProgress          `json:"progress"`
	RecommendedLessons []*types.Lesson          `json:"recommended_lessons"`
}

type DashboardService interface {
	GetDashboardData(ctx context.Context) (*DashboardData, error)
}

type dashboardService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	userRepo            repos.UserRepo
	courseRepo          repos.CourseRepo
	lessonRepo          repos.LessonRepo
	progressRepo        repos.UserProgressRepo
	userAchievementRepo repos.UserAchievementRepo
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	progressRepo repos.UserProgressRepo,
	userAchievementRepo repos.UserAchievementRepo,
) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:                  db,
		log:                 serviceLog,
		userRepo:            userRepo,
		courseRepo:          courseRepo,
		lessonRepo:          lessonRepo,
		progressRepo:        progressRepo,
		userAchievementRepo: userAchievementRepo,
	}
}

func (ds *dashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	const op = "Dashboard.Get"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	u, err := ds.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, msgUserNotFound)
	}

	out := &DashboardData{
		User: u,
		Progress: OverallProgress{
			TotalXP:       u.TotalXP,
			CurrentLevel:  u.CurrentLevel,
			LevelProgress: leveling.XPProgressWithinLevel(u.TotalXP, u.CurrentLevel),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := ds.userAchievementRepo.ListByUser(gctx, nil, userID, recentAchievementsLimit)
		out.RecentAchievements = list
		return err
	})
	g.Go(func() error {
		n, err := ds.courseRepo.CountPublished(gctx, nil)
		out.Progress.TotalCourses = n
		return err
	})
	g.Go(func() error {
		n, err := ds.progressRepo.CountPublishedCoursesByStatus(gctx, nil, userID, types.StatusCompleted)
		out.Progress.CompletedCourses = n
		return err
	})
	g.Go(func() error {
		n, err := ds.progressRepo.CountPublishedCoursesByStatus(gctx, nil, userID, types.StatusInProgress)
		out.Progress.InProgressCourses = n
		return err
	})
	g.Go(func() error {
		list, err := ds.lessonRepo.ListRecommended(gctx, nil, userID, recommendedLessonsLimit)
		out.RecommendedLessons = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dataagg.MapError(op, err)
	}

	if out.RecentAchievements == nil {
		out.RecentAchievements = []*types.UserAchievement{}
	}
	if out.RecommendedLessons == nil {
		out.RecommendedLessons = []*types.Lesson{}
	}
	return out, nil
}
