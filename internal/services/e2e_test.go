package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/questlearn-backend/internal/domain"
)

func TestLearnerJourney(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	course := testutil.SeedCourse(t, ctx, e.db, "Go Basics", types.DifficultyBeginner, 1, true)
	lesson := testutil.SeedLesson(t, ctx, e.db, course.ID, "Hello, World", 1, 30, true)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 1, 0)
	testutil.SeedQuizQuestion(t, ctx, e.db, lesson.ID, 2, 1)
	milestone := testutil.SeedAchievement(t, ctx, e.db, "First Steps", types.CategoryMilestone, types.CriteriaLessonsCompletedAtLeast, 1, 25)

	_, err := e.auth.Register(ctx, RegisterInput{Email: "journey@example.com", Username: "journey", Password: "secret1"})
	require.NoError(t, err)
	login, err := e.auth.Login(ctx, LoginInput{Email: "journey@example.com", Password: "secret1"})
	require.NoError(t, err)
	uctx, err := e.auth.SetContextFromToken(ctx, login.AccessToken)
	require.NoError(t, err)

	courses, err := e.courses.ListCourses(uctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	detail, err := e.courses.GetCourse(uctx, courses[0].ID)
	require.NoError(t, err)
	lessons, err := e.lessons.ListByCourse(uctx, detail.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	questions, err := e.lessons.GetQuizQuestions(uctx, lessons[0].ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	quiz, err := e.quiz.SubmitQuiz(uctx, lessons[0].ID, SubmitQuizInput{Answers: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 0.5, quiz.Submission.Score)
	assert.Equal(t, 15, quiz.TotalXP)

	progress, err := e.progress.UpdateProgress(uctx, UpdateProgressInput{
		CourseID:             detail.ID,
		LessonID:             testutil.PtrUUID(lessons[0].ID),
		Status:               types.StatusCompleted,
		CompletionPercentage: 100,
	})
	require.NoError(t, err)
	require.Len(t, progress.UnlockedAchievements, 1)
	assert.Equal(t, milestone.ID, progress.UnlockedAchievements[0].ID)
	assert.Equal(t, 40, progress.TotalXP)

	me, err := e.users.GetMe(uctx)
	require.NoError(t, err)
	assert.Equal(t, 40, me.User.TotalXP)
	assert.Equal(t, 1, me.User.CurrentLevel)
	assert.InDelta(t, 0.4, me.LevelProgress, 1e-9)

	mine, err := e.achievements.ListUserAchievements(uctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "First Steps", mine[0].Achievement.Name)
}
