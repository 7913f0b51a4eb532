package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const xpSourceQuiz = "quiz"

type SubmitQuizInput struct {
	Answers []int `json:"answers"`
}

type QuestionResult struct {
	QuestionID    uuid.UUID `json:"question_id"`
	SelectedIndex int       `json:"selected_index"`
	CorrectIndex  int       `json:"correct_index"`
	IsCorrect     bool      `json:"is_correct"`
	Explanation   *string   `json:"explanation"`
}

type QuizResult struct {
	Submission     *types.QuizSubmission `json:"submission"`
	CorrectCount   int                   `json:"correct_count"`
	TotalQuestions int                   `json:"total_questions"`
	Results        []QuestionResult      `json:"results"`
	XPAwarded      int                   `json:"xp_awarded"`
	TotalXP        int                   `json:"total_xp"`
	CurrentLevel   int                   `json:"current_level"`
}

type QuizService interface {
	// SubmitQuiz grades answers in question order, stores the submission and credits
	// floor(xp_reward * score) in one transaction. Progress and achievements are untouched.
	SubmitQuiz(ctx context.Context, lessonID uuid.UUID, in SubmitQuizInput) (*QuizResult, error)
}

type quizService struct {
	db             *gorm.DB
	log            *logger.Logger
	runner         dataagg.TxRunner
	userRepo       repos.UserRepo
	lessonRepo     repos.LessonRepo
	questionRepo   repos.QuizQuestionRepo
	submissionRepo repos.QuizSubmissionRepo
	leaderboard    LeaderboardService
	emitter        SSEEmitter
	ledger         xpLedger
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	runner dataagg.TxRunner,
	userRepo repos.UserRepo,
	lessonRepo repos.LessonRepo,
	questionRepo repos.QuizQuestionRepo,
	submissionRepo repos.QuizSubmissionRepo,
	leaderboard LeaderboardService,
	emitter SSEEmitter,
) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:             db,
		log:            serviceLog,
		runner:         runner,
		userRepo:       userRepo,
		lessonRepo:     lessonRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		leaderboard:    leaderboard,
		emitter:        emitter,
		ledger:         xpLedger{userRepo: userRepo},
	}
}

// Grade returns the number of answers that match their question. Answers outside a
// question's options are simply wrong.
func Grade(questions []*types.QuizQuestion, answers []int) (int, []QuestionResult) {
	correct := 0
	results := make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		ok := answers[i] == q.CorrectAnswerIndex
		if ok {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			SelectedIndex: answers[i],
			CorrectIndex:  q.CorrectAnswerIndex,
			IsCorrect:     ok,
			Explanation:   q.Explanation,
		})
	}
	return correct, results
}

// QuizXP is floor(reward * correct/total) in integer arithmetic.
func QuizXP(reward, correct, total int) int {
	if total <= 0 || reward <= 0 || correct <= 0 {
		return 0
	}
	return reward * correct / total
}

func (qs *quizService) SubmitQuiz(ctx context.Context, lessonID uuid.UUID, in SubmitQuizInput) (*QuizResult, error) {
	const op = "Quiz.Submit"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}

	lesson, err := qs.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, msgLessonNotFound)
	}
	questions, err := qs.questionRepo.ListByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if len(questions) == 0 {
		return nil, domainagg.Validation(op, "no quiz questions found for this lesson")
	}
	if len(in.Answers) != len(questions) {
		return nil, domainagg.Validation(op, "number of answers must match number of questions")
	}

	correct, results := Grade(questions, in.Answers)
	total := len(questions)
	score := float64(correct) / float64(total)
	xp := QuizXP(lesson.XPReward, correct, total)

	var (
		submission *types.QuizSubmission
		user       *types.User
		startLevel int
	)
	err = dataagg.ExecuteWrite(ctx, dataagg.BaseDeps{DB: qs.db, Log: qs.log, Runner: qs.runner}, op, func(dbc dbctx.Context) error {
		u, err := qs.userRepo.LockByID(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NotFound(op, msgUserNotFound)
		}
		startLevel = u.CurrentLevel

		sub := &types.QuizSubmission{
			UserID:   userID,
			LessonID: lessonID,
			Answers:  append([]int(nil), in.Answers...),
			Score:    score,
		}
		if err := qs.submissionRepo.Create(dbc.Ctx, dbc.Tx, sub); err != nil {
			return err
		}
		if _, err := qs.ledger.award(dbc, u, xp); err != nil {
			return err
		}
		submission = sub
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	qs.log.Info("quiz submitted",
		"user_id", userID,
		"lesson_id", lessonID,
		"correct", correct,
		"total", total,
		"xp", xp,
	)
	observability.Current().ObserveQuiz(correct, total)
	if xp > 0 {
		observeXP(xpSourceQuiz, xp, startLevel, user)
		if qs.leaderboard != nil {
			qs.leaderboard.Record(ctx, user)
		}
		queueEvents(ctx, qs.emitter, xpEvents(userID, xpSourceQuiz, xp, startLevel, user)...)
	}

	return &QuizResult{
		Submission:     submission,
		CorrectCount:   correct,
		TotalQuestions: total,
		Results:        results,
		XPAwarded:      xp,
		TotalXP:        user.TotalXP,
		CurrentLevel:   user.CurrentLevel,
	}, nil
}
