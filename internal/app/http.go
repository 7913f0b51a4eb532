package app

import (
	"gorm.io/gorm"

	httpserver "github.com/yungbote/questlearn-backend/internal/http"
	httpH "github.com/yungbote/questlearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/questlearn-backend/internal/http/middleware"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

func wireHTTP(db *gorm.DB, log *logger.Logger, cfg Config, s Services, hub *realtime.SSEHub, metrics *observability.Metrics) *httpserver.Server {
	log.Info("Wiring handlers...")
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:         log,
		ServiceName: serviceName,
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     metrics,
		Emitter:     s.Emitter,

		AuthHandler:        httpH.NewAuthHandler(log, s.Auth),
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, s.Auth),
		UserHandler:        httpH.NewUserHandler(log, s.User),
		CourseHandler:      httpH.NewCourseHandler(log, s.Course, s.Lesson),
		LessonHandler:      httpH.NewLessonHandler(log, s.Lesson, s.Quiz),
		ProgressHandler:    httpH.NewProgressHandler(log, s.Progress),
		AchievementHandler: httpH.NewAchievementHandler(log, s.Achievement),
		StatsHandler:       httpH.NewStatsHandler(log, s.Dashboard, s.Profile, s.Roadmap, s.Leaderboard),
		RealtimeHandler:    httpH.NewRealtimeHandler(log, hub),

		HealthHandler: httpH.NewHealthHandler(db),
	})
}
