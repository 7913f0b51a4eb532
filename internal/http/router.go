package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/questlearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/questlearn-backend/internal/http/middleware"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	Emitter     services.SSEEmitter

	AuthHandler        *httpH.AuthHandler
	AuthMiddleware     *httpMW.AuthMiddleware
	UserHandler        *httpH.UserHandler
	CourseHandler      *httpH.CourseHandler
	LessonHandler      *httpH.LessonHandler
	ProgressHandler    *httpH.ProgressHandler
	AchievementHandler *httpH.AchievementHandler
	StatsHandler       *httpH.StatsHandler
	RealtimeHandler    *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.FlushSSE(cfg.Emitter))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Catalog (public)
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.GET("/courses/:id/lessons", cfg.CourseHandler.ListCourseLessons)
		}
		if cfg.LessonHandler != nil {
			api.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
			api.GET("/lessons/:id/quiz", cfg.LessonHandler.GetQuiz)
		}
		if cfg.AchievementHandler != nil {
			api.GET("/achievements", cfg.AchievementHandler.ListAchievements)
		}
		if cfg.StatsHandler != nil {
			api.GET("/leaderboard", cfg.StatsHandler.Leaderboard)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}
		if cfg.AchievementHandler != nil {
			protected.GET("/me/achievements", cfg.AchievementHandler.ListMine)
		}
		if cfg.LessonHandler != nil {
			protected.POST("/lessons/:id/quiz/submit", cfg.LessonHandler.SubmitQuiz)
		}
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.ListProgress)
			protected.POST("/progress", cfg.ProgressHandler.UpdateProgress)
		}
		if cfg.StatsHandler != nil {
			protected.GET("/dashboard", cfg.StatsHandler.Dashboard)
			protected.GET("/profile/stats", cfg.StatsHandler.ProfileStats)
			protected.GET("/roadmap", cfg.StatsHandler.Roadmap)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
