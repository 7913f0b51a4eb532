package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

func TestQuizXP(t *testing.T) {
	assert.Equal(t, 30, QuizXP(30, 2, 2))
	assert.Equal(t, 15, QuizXP(30, 1, 2))
	assert.Equal(t, 0, QuizXP(30, 0, 2))
	assert.Equal(t, 3, QuizXP(10, 1, 3))
	assert.Equal(t, 10, QuizXP(10, 3, 3))
	assert.Equal(t, 0, QuizXP(0, 3, 3))
	assert.Equal(t, 0, QuizXP(10, 1, 0))
}

func TestSubmitQuizScoresAndAwardsXP(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, e.db, "quiz@example.com", "quizzer")
	course := testutil.SeedCourse(t, ctx, e.db, "Go Basics", types.DifficultyBeginner, 1, true)
	lesson := testutil.SeedLesson(t, ctx, e.db, course.ID, "Variables", 1, 30, true)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 1, 0)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 2, 2)
	uctx := asUser(user.ID)

	half, err := e.quiz.SubmitQuiz(uctx, lesson.ID, SubmitQuizInput{Answers: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 0.5, half.Submission.Score)
	assert.Equal(t, 1, half.CorrectCount)
	assert.Equal(t, 2, half.TotalQuestions)
	assert.Equal(t, 15, half.XPAwarded)
	assert.Equal(t, 15, half.TotalXP)
	require.Len(t, half.Results, 2)
	assert.True(t, half.Results[0].IsCorrect)
	assert.False(t, half.Results[1].IsCorrect)

	none, err := e.quiz.SubmitQuiz(uctx, lesson.ID, SubmitQuizInput{Answers: []int{3, 3}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, none.Submission.Score)
	assert.Equal(t, 0, none.XPAwarded)
	assert.Equal(t, 15, none.TotalXP)

	all, err := e.quiz.SubmitQuiz(uctx, lesson.ID, SubmitQuizInput{Answers: []int{0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, all.Submission.Score)
	assert.Equal(t, 30, all.XPAwarded)

	xp, level := e.reloadUser(t, user.ID)
	assert.Equal(t, 45, xp)
	assert.Equal(t, 1, level)

	subs, err := e.submissionRepo.ListByUserAndLesson(ctx, nil, user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 3)

	// Quizzes never touch progress.
	rows, err := e.progressRepo.ListByUser(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, []realtime.SSEEvent{realtime.SSEEventXPAwarded, realtime.SSEEventXPAwarded}, e.emitter.events())
}

func TestSubmitQuizLevelsUp(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, e.db, "lvl@example.com", "leveler")
	user.TotalXP = 90
	require.NoError(t, e.db.Save(user).Error)
	course := testutil.SeedCourse(t, ctx, e.db, "Go Basics", types.DifficultyBeginner, 1, true)
	lesson := testutil.SeedLesson(t, ctx, e.db, course.ID, "Loops", 1, 20, true)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 1, 1)

	res, err := e.quiz.SubmitQuiz(asUser(user.ID), lesson.ID, SubmitQuizInput{Answers: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, 110, res.TotalXP)
	assert.Equal(t, 2, res.CurrentLevel)
	assert.Equal(t, []realtime.SSEEvent{realtime.SSEEventXPAwarded, realtime.SSEEventLevelUp}, e.emitter.events())
}

func TestSubmitQuizOnUnpublishedLesson(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, e.db, "draft@example.com", "drafter")
	course := testutil.SeedCourse(t, ctx, e.db, "Go Basics", types.DifficultyBeginner, 1, true)
	draft := testutil.SeedLesson(t, ctx, e.db, course.ID, "Draft", 1, 40, false)
	testutil.SeedQuizQuestion(t, ctx, e.db, draft.ID, 1, 1)

	// Only existence is checked; publishing gates reads, not submissions.
	res, err := e.quiz.SubmitQuiz(asUser(user.ID), draft.ID, SubmitQuizInput{Answers: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Submission.Score)
	assert.Equal(t, 40, res.XPAwarded)
}

func TestSubmitQuizErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, e.db, "err@example.com", "errors")
	course := testutil.SeedCourse(t, ctx, e.db, "Go Basics", types.DifficultyBeginner, 1, true)
	empty := testutil.SeedLesson(t, ctx, e.db, course.ID, "No quiz", 1, 10, true)
	lesson := testutil.SeedLesson(t, ctx, e.db, course.ID, "Quiz", 2, 10, true)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 1, 0)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 2, 0)
	uctx := asUser(user.ID)

	_, err := e.quiz.SubmitQuiz(uctx, uuid.New(), SubmitQuizInput{Answers: []int{0}})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	assert.Equal(t, "lesson not found", domainagg.MessageOf(err))

	_, err = e.quiz.SubmitQuiz(uctx, empty.ID, SubmitQuizInput{Answers: []int{0}})
	assert.Equal(t, "no quiz questions found for this lesson", domainagg.MessageOf(err))

	_, err = e.quiz.SubmitQuiz(uctx, lesson.ID, SubmitQuizInput{Answers: []int{0}})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
	assert.Equal(t, "number of answers must match number of questions", domainagg.MessageOf(err))

	_, err = e.quiz.SubmitQuiz(asUser(uuid.New()), lesson.ID, SubmitQuizInput{Answers: []int{0, 0}})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	assert.Equal(t, "user not found", domainagg.MessageOf(err))

	subs, err := e.submissionRepo.ListByUserAndLesson(ctx, nil, user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
