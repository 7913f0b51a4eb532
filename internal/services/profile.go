package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/learning/leveling"
	"github.com/yungbote/questlearn-backend/internal/learning/streak"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const progressHistoryDays = 30

type ProfileStatistics struct {
	TotalLessonsCompleted int64   `json:"total_lessons_completed"`
	TotalQuizzesTaken     int64   `json:"total_quizzes_taken"`
	AverageQuizScore      float64 `json:"average_quiz_score"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	TotalXPEarned         int     `json:"total_xp_earned"`
	CoursesCompleted      int64   `json:"courses_completed"`
	LevelProgress         float64 `json:"level_progress"`
}

type ProfileStats struct {
	User            *types.User              `json:"user"`
	Achievements    []*types.UserAchievement `json:"achievements"`
	Statistics      ProfileStatistics        `json:"statistics"`
	ProgressHistory []streak.DailyPoint      `json:"progress_history"`
}

type ProfileService interface {
	GetUserProfileStats(ctx context.Context) (*ProfileStats, error)
}

type profileService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	userRepo            repos.UserRepo
	progressRepo        repos.UserProgressRepo
	submissionRepo      repos.QuizSubmissionRepo
	userAchievementRepo repos.UserAchievementRepo
	now                 func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	progressRepo repos.UserProgressRepo,
	submissionRepo repos.QuizSubmissionRepo,
	userAchievementRepo repos.UserAchievementRepo,
) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:                  db,
		log:                 serviceLog,
		userRepo:            userRepo,
		progressRepo:        progressRepo,
		submissionRepo:      submissionRepo,
		userAchievementRepo: userAchievementRepo,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

func (ps *profileService) GetUserProfileStats(ctx context.Context) (*ProfileStats, error) {
	const op = "Profile.Stats"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	u, err := ps.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, msgUserNotFound)
	}

	now := ps.now()
	since := streak.Day(now).AddDate(0, 0, -(progressHistoryDays - 1))

	var (
		earned    []*types.UserAchievement
		lessons   int64
		courses   int64
		quiz      repos.QuizStats
		quizTimes []time.Time
		completed []*types.UserProgress
		recent    []*types.UserProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		earned, err = ps.userAchievementRepo.ListByUser(gctx, nil, userID, 0)
		return err
	})
	g.Go(func() (err error) {
		lessons, err = ps.progressRepo.CountCompletedLessons(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		courses, err = ps.progressRepo.CountCompletedCourses(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		quiz, err = ps.submissionRepo.StatsByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		quizTimes, err = ps.submissionRepo.ListCompletedAtByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		completed, err = ps.progressRepo.ListCompletedByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		recent, err = ps.progressRepo.ListUpdatedSince(gctx, nil, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dataagg.MapError(op, err)
	}

	activity := make([]time.Time, 0, len(quizTimes)+len(completed))
	activity = append(activity, quizTimes...)
	for _, p := range completed {
		activity = append(activity, p.UpdatedAt)
	}
	streaks := streak.Compute(activity, now)

	entries := make([]streak.DailyEntry, 0, len(recent))
	for _, p := range recent {
		e := streak.DailyEntry{At: p.UpdatedAt, XP: p.XPEarned}
		if p.LessonID != nil && p.Status == types.StatusCompleted {
			e.CompletedLesson = p.LessonID.String()
		}
		entries = append(entries, e)
	}

	if earned == nil {
		earned = []*types.UserAchievement{}
	}
	return &ProfileStats{
		User:         u,
		Achievements: earned,
		Statistics: ProfileStatistics{
			TotalLessonsCompleted: lessons,
			TotalQuizzesTaken:     quiz.Count,
			AverageQuizScore:      quiz.AverageScore,
			CurrentStreak:         streaks.Current,
			LongestStreak:         streaks.Longest,
			TotalXPEarned:         u.TotalXP,
			CoursesCompleted:      courses,
			LevelProgress:         leveling.XPProgressWithinLevel(u.TotalXP, u.CurrentLevel),
		},
		ProgressHistory: streak.DailySeries(progressHistoryDays, now, entries),
	}, nil
}
