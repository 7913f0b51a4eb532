package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/questlearn-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		Password:     "pw",
		CurrentLevel: 1,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedUserWithPassword stores a real bcrypt hash so login can be exercised.
func SeedUserWithPassword(tb testing.TB, ctx context.Context, tx *gorm.DB, email, username, password string) *types.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		Password:     string(hash),
		CurrentLevel: 1,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, difficulty types.Difficulty, orderIndex int, published bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:                     uuid.New(),
		Title:                  title,
		Description:            title + " description",
		DifficultyLevel:        difficulty,
		EstimatedDurationHours: 2,
		IsPublished:            published,
		OrderIndex:             orderIndex,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string, orderIndex, xpReward int, published bool) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       title,
		Content:     "# " + title,
		XPReward:    xpReward,
		OrderIndex:  orderIndex,
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedQuizQuestion creates a four-option question whose right answer is correct.
func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, orderIndex, correct int) *types.QuizQuestion {
	tb.Helper()
	q := &types.QuizQuestion{
		ID:                 uuid.New(),
		LessonID:           lessonID,
		QuestionText:       "question",
		Options:            datatypes.JSONSlice[string]{"a", "b", "c", "d"},
		CorrectAnswerIndex: correct,
		OrderIndex:         orderIndex,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, category types.AchievementCategory, kind types.CriteriaKind, threshold, xpReward int) *types.Achievement {
	tb.Helper()
	a := &types.Achievement{
		ID:          uuid.New(),
		Name:        name,
		Description: name,
		BadgeIcon:   "star",
		BadgeColor:  "#FFD700",
		XPReward:    xpReward,
		Category:    category,
		Criteria:    types.Criteria{Kind: kind, Threshold: threshold},
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, lessonID *uuid.UUID, status types.ProgressStatus, xp int) *types.UserProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.UserProgress{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
		Status:   status,
		XPEarned: xp,
	}
	if status != types.StatusNotStarted {
		p.StartedAt = &now
	}
	if status == types.StatusCompleted {
		p.CompletionPercentage = 100
		p.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
