package app

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type Services struct {
	Emitter services.SSEEmitter

	Auth        services.AuthService
	User        services.UserService
	Course      services.CourseService
	Lesson      services.LessonService
	Quiz        services.QuizService
	Progress    services.ProgressService
	Achievement services.AchievementService
	Leaderboard services.LeaderboardService

	Dashboard services.DashboardService
	Profile   services.ProfileService
	Roadmap   services.RoadmapService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")

	runner := dataagg.NewGormTxRunner(db, txOptions(cfg)...)
	emitter := &services.BusEmitter{Bus: c.SSEBus, Log: log}
	rdb := c.universal()

	leaderboard := services.NewLeaderboardService(db, log, rdb, r.User)
	cache := services.NewCatalogCache(log, rdb, cfg.CatalogCacheTTL)
	achievements := services.NewAchievementService(db, log, r.Achievement, r.UserAchievement, r.UserProgress, r.User)

	return Services{
		Emitter:     emitter,
		Auth:        services.NewAuthService(db, log, r.User, leaderboard, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:        services.NewUserService(db, log, r.User),
		Course:      services.NewCourseService(db, log, r.Course, cache),
		Lesson:      services.NewLessonService(db, log, r.Lesson, r.QuizQuestion),
		Quiz:        services.NewQuizService(db, log, runner, r.User, r.Lesson, r.QuizQuestion, r.QuizSubmission, leaderboard, emitter),
		Progress:    services.NewProgressService(db, log, runner, r.User, r.Course, r.Lesson, r.UserProgress, achievements, leaderboard, emitter),
		Achievement: achievements,
		Leaderboard: leaderboard,
		Dashboard:   services.NewDashboardService(db, log, r.User, r.Course, r.Lesson, r.UserProgress, r.UserAchievement),
		Profile:     services.NewProfileService(db, log, r.User, r.UserProgress, r.QuizSubmission, r.UserAchievement),
		Roadmap:     services.NewRoadmapService(db, log, r.Course, r.CoursePrerequisite, r.UserProgress),
	}
}

// txOptions raises postgres writes to repeatable read so concurrent XP awards on
// one user conflict and retry instead of losing an update.
func txOptions(cfg Config) []dataagg.TxOption {
	if strings.HasPrefix(strings.ToLower(cfg.DBDriver), "postgres") {
		return []dataagg.TxOption{dataagg.WithIsolation(sql.LevelRepeatableRead)}
	}
	return nil
}
