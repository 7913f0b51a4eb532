package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/questlearn-backend/internal/domain"
)

type countingCache struct{ calls int }

func (c *countingCache) InvalidateCache(context.Context) error {
	c.calls++
	return nil
}

func newSeeder(t *testing.T) (*Seeder, *gorm.DB, *countingCache) {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	cache := &countingCache{}
	s := NewSeeder(SeederDeps{
		Log:          log,
		Runner:       dataagg.NewGormTxRunner(db),
		Courses:      repos.NewCourseRepo(db, log),
		Prereqs:      repos.NewCoursePrerequisiteRepo(db, log),
		Lessons:      repos.NewLessonRepo(db, log),
		Questions:    repos.NewQuizQuestionRepo(db, log),
		Achievements: repos.NewAchievementRepo(db, log),
		Cache:        cache,
	})
	return s, db, cache
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeederIsIdempotent(t *testing.T) {
	s, db, cache := newSeeder(t)
	ctx := context.Background()
	c, err := Load("")
	require.NoError(t, err)

	first, err := s.Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, len(c.Courses), first.CoursesCreated)
	assert.Equal(t, len(c.Achievements), first.AchievementsCreated)
	assert.Positive(t, first.QuestionsCreated)

	courses := count(t, db, &types.Course{})
	lessons := count(t, db, &types.Lesson{})
	questions := count(t, db, &types.QuizQuestion{})
	edges := count(t, db, &types.CoursePrerequisite{})
	assert.EqualValues(t, 2, edges)

	second, err := s.Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)
	assert.Equal(t, courses, count(t, db, &types.Course{}))
	assert.Equal(t, lessons, count(t, db, &types.Lesson{}))
	assert.Equal(t, questions, count(t, db, &types.QuizQuestion{}))
	assert.Equal(t, edges, count(t, db, &types.CoursePrerequisite{}))
	assert.Equal(t, 2, cache.calls)
}

func TestSeederUpdatesChangedRowsAndKeepsZeroValues(t *testing.T) {
	s, db, _ := newSeeder(t)
	ctx := context.Background()

	src := minimal + `achievements:
  - name: Hidden
    category: special
    active: false
`
	src = strings.Replace(src, "      - title: L1\n", "      - title: L1\n        xp_reward: 0\n        published: false\n", 1)
	c, err := Parse([]byte(src))
	require.NoError(t, err)
	_, err = s.Apply(ctx, c)
	require.NoError(t, err)

	var lesson types.Lesson
	require.NoError(t, db.Where("title = ?", "L1").First(&lesson).Error)
	assert.Equal(t, 0, lesson.XPReward)
	assert.False(t, lesson.IsPublished)

	var hidden types.Achievement
	require.NoError(t, db.Where("name = ?", "Hidden").First(&hidden).Error)
	assert.False(t, hidden.IsActive)

	c.Courses[0].Lessons[0].Quiz[0].Correct = 0
	c.Courses[0].Description = "now described"
	res, err := s.Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CoursesUpdated)
	assert.Equal(t, 1, res.QuestionsUpdated)
	assert.Zero(t, res.LessonsUpdated)

	var q types.QuizQuestion
	require.NoError(t, db.Where("lesson_id = ?", lesson.ID).First(&q).Error)
	assert.Equal(t, 0, q.CorrectAnswerIndex)
	assert.EqualValues(t, 1, count(t, db, &types.QuizQuestion{}))
}
