package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

const testJWTSecret = "test-secret"

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	e.msgs = append(e.msgs, msg)
	e.mu.Unlock()
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type env struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo            repos.UserRepo
	courseRepo          repos.CourseRepo
	prereqRepo          repos.CoursePrerequisiteRepo
	lessonRepo          repos.LessonRepo
	questionRepo        repos.QuizQuestionRepo
	submissionRepo      repos.QuizSubmissionRepo
	progressRepo        repos.UserProgressRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo

	emitter      *recordingEmitter
	leaderboard  LeaderboardService
	auth         AuthService
	users        UserService
	courses      CourseService
	lessons      LessonService
	achievements AchievementService
	quiz         QuizService
	progress     ProgressService
	dashboard    DashboardService
	profile      ProfileService
	roadmap      RoadmapService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	e := &env{
		db:                  db,
		log:                 log,
		userRepo:            repos.NewUserRepo(db, log),
		courseRepo:          repos.NewCourseRepo(db, log),
		prereqRepo:          repos.NewCoursePrerequisiteRepo(db, log),
		lessonRepo:          repos.NewLessonRepo(db, log),
		questionRepo:        repos.NewQuizQuestionRepo(db, log),
		submissionRepo:      repos.NewQuizSubmissionRepo(db, log),
		progressRepo:        repos.NewUserProgressRepo(db, log),
		achievementRepo:     repos.NewAchievementRepo(db, log),
		userAchievementRepo: repos.NewUserAchievementRepo(db, log),
		emitter:             &recordingEmitter{},
	}
	e.wire(e.userAchievementRepo)
	return e
}

// wire builds the services on top of the repos; tests swap uaRepo to inject failures.
func (e *env) wire(uaRepo repos.UserAchievementRepo) {
	runner := dataagg.NewGormTxRunner(e.db)
	e.leaderboard = NewLeaderboardService(e.db, e.log, nil, e.userRepo)
	e.auth = NewAuthService(e.db, e.log, e.userRepo, e.leaderboard, testJWTSecret, time.Hour)
	e.users = NewUserService(e.db, e.log, e.userRepo)
	e.courses = NewCourseService(e.db, e.log, e.courseRepo, nil)
	e.lessons = NewLessonService(e.db, e.log, e.lessonRepo, e.questionRepo)
	e.achievements = NewAchievementService(e.db, e.log, e.achievementRepo, uaRepo, e.progressRepo, e.userRepo)
	e.quiz = NewQuizService(e.db, e.log, runner, e.userRepo, e.lessonRepo, e.questionRepo, e.submissionRepo, e.leaderboard, e.emitter)
	e.progress = NewProgressService(e.db, e.log, runner, e.userRepo, e.courseRepo, e.lessonRepo, e.progressRepo, e.achievements, e.leaderboard, e.emitter)
	e.dashboard = NewDashboardService(e.db, e.log, e.userRepo, e.courseRepo, e.lessonRepo, e.progressRepo, e.userAchievementRepo)
	e.profile = NewProfileService(e.db, e.log, e.userRepo, e.progressRepo, e.submissionRepo, e.userAchievementRepo)
	e.roadmap = NewRoadmapService(e.db, e.log, e.courseRepo, e.prereqRepo, e.progressRepo)
}

func asUser(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func (e *env) reloadUser(t *testing.T, id uuid.UUID) (int, int) {
	t.Helper()
	u, err := e.userRepo.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.TotalXP, u.CurrentLevel
}
