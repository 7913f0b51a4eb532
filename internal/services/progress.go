package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/platform/validate"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

const (
	xpSourceProgress     = "progress"
	msgLessonNotInCourse = "lesson not found or does not belong to the specified course"
)

type UpdateProgressInput struct {
	CourseID             uuid.UUID            `json:"course_id"`
	LessonID             *uuid.UUID           `json:"lesson_id"`
	Status               types.ProgressStatus `json:"status" validate:"required,oneof=not_started in_progress completed"`
	CompletionPercentage float64              `json:"completion_percentage" validate:"gte=0,lte=100"`
	XPEarned             int                  `json:"xp_earned" validate:"gte=0"`
}

type ProgressResult struct {
	Progress             *types.UserProgress  `json:"progress"`
	XPAwarded            int                  `json:"xp_awarded"`
	UnlockedAchievements []*types.Achievement `json:"unlocked_achievements"`
	TotalXP              int                  `json:"total_xp"`
	CurrentLevel         int                  `json:"current_level"`
}

type ProgressService interface {
	ListUserProgress(ctx context.Context) ([]*types.UserProgress, error)
	// UpdateProgress upserts the caller's row for (course, lesson) and, on the first
	// transition to completed, credits xp_earned and grants eligible achievements. The
	// whole update commits or rolls back as one unit.
	UpdateProgress(ctx context.Context, in UpdateProgressInput) (*ProgressResult, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	runner       dataagg.TxRunner
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	progressRepo repos.UserProgressRepo
	achievements AchievementService
	leaderboard  LeaderboardService
	emitter      SSEEmitter
	ledger       xpLedger
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	runner dataagg.TxRunner,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	progressRepo repos.UserProgressRepo,
	achievements AchievementService,
	leaderboard LeaderboardService,
	emitter SSEEmitter,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:           db,
		log:          serviceLog,
		runner:       runner,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		achievements: achievements,
		leaderboard:  leaderboard,
		emitter:      emitter,
		ledger:       xpLedger{userRepo: userRepo},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (ps *progressService) ListUserProgress(ctx context.Context) ([]*types.UserProgress, error) {
	const op = "Progress.List"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	rows, err := ps.progressRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return rows, nil
}

func (ps *progressService) UpdateProgress(ctx context.Context, in UpdateProgressInput) (*ProgressResult, error) {
	const op = "Progress.Update"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	if in.CourseID == uuid.Nil {
		return nil, domainagg.Validation(op, "course_id is required")
	}
	if in.LessonID != nil && *in.LessonID == uuid.Nil {
		in.LessonID = nil
	}
	if err := validate.Struct(op, in); err != nil {
		return nil, err
	}

	var (
		row        *types.UserProgress
		user       *types.User
		unlocked   []*types.Achievement
		gained     int
		startLevel int
		completed  bool
	)
	err = dataagg.ExecuteWrite(ctx, dataagg.BaseDeps{DB: ps.db, Log: ps.log, Runner: ps.runner}, op, func(dbc dbctx.Context) error {
		unlocked, gained, completed = nil, 0, false

		u, err := ps.userRepo.LockByID(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NotFound(op, msgUserNotFound)
		}
		startLevel = u.CurrentLevel

		course, err := ps.courseRepo.GetByID(dbc.Ctx, dbc.Tx, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NotFound(op, "course not found")
		}
		if in.LessonID != nil {
			lesson, err := ps.lessonRepo.GetByID(dbc.Ctx, dbc.Tx, *in.LessonID)
			if err != nil {
				return err
			}
			if lesson == nil || lesson.CourseID != course.ID {
				return domainagg.NotFound(op, msgLessonNotInCourse)
			}
		}

		p, err := ps.progressRepo.Find(dbc.Ctx, dbc.Tx, userID, in.CourseID, in.LessonID)
		if err != nil {
			return err
		}
		now := ps.now()
		if p == nil {
			p = &types.UserProgress{
				UserID:               userID,
				CourseID:             in.CourseID,
				LessonID:             in.LessonID,
				Status:               in.Status,
				CompletionPercentage: in.CompletionPercentage,
			}
			if in.Status != types.StatusNotStarted {
				p.StartedAt = &now
			}
			if in.Status == types.StatusCompleted {
				p.CompletedAt = &now
				p.XPEarned = in.XPEarned
				completed = true
			}
			if err := ps.progressRepo.Create(dbc.Ctx, dbc.Tx, p); err != nil {
				return err
			}
		} else {
			prior := p.Status
			p.Status = in.Status
			p.CompletionPercentage = in.CompletionPercentage
			if p.StartedAt == nil && in.Status != types.StatusNotStarted {
				p.StartedAt = &now
			}
			if in.Status == types.StatusCompleted && prior != types.StatusCompleted {
				p.CompletedAt = &now
				p.XPEarned += in.XPEarned
				completed = true
			}
			if err := ps.progressRepo.Save(dbc.Ctx, dbc.Tx, p); err != nil {
				return err
			}
		}

		if completed {
			award, err := ps.ledger.award(dbc, u, in.XPEarned)
			if err != nil {
				return err
			}
			gained = award.TotalXP - award.PreviousXP

			newly, bonus, err := ps.achievements.CheckAndAward(dbc, u)
			if err != nil {
				return err
			}
			unlocked = newly
			gained += bonus
		}

		row = p
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unlocked == nil {
		unlocked = []*types.Achievement{}
	}
	if completed {
		ps.log.Info("progress completed",
			"user_id", userID,
			"course_id", in.CourseID,
			"xp", gained,
			"achievements", len(unlocked),
		)
	}

	m := observability.Current()
	m.ObserveProgress(string(row.Status), row.LessonID == nil)
	observeXP(xpSourceProgress, gained, startLevel, user)
	for _, a := range unlocked {
		m.IncAchievement(string(a.Category))
	}

	msgs := []realtime.SSEMessage{realtime.ToUser(userID, realtime.SSEEventProgressUpdated, row)}
	msgs = append(msgs, xpEvents(userID, xpSourceProgress, gained, startLevel, user)...)
	for _, a := range unlocked {
		msgs = append(msgs, realtime.ToUser(userID, realtime.SSEEventAchievementUnlocked, AchievementUnlockedEvent{Achievement: a}))
	}
	queueEvents(ctx, ps.emitter, msgs...)
	if gained > 0 && ps.leaderboard != nil {
		ps.leaderboard.Record(ctx, user)
	}

	return &ProgressResult{
		Progress:             row,
		XPAwarded:            gained,
		UnlockedAchievements: unlocked,
		TotalXP:              user.TotalXP,
		CurrentLevel:         user.CurrentLevel,
	}, nil
}
