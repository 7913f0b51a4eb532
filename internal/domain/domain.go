package domain

import (
	"github.com/yungbote/questlearn-backend/internal/domain/gamification"
	"github.com/yungbote/questlearn-backend/internal/domain/learning"
	"github.com/yungbote/questlearn-backend/internal/domain/user"
)

type User = user.User

type Difficulty = learning.Difficulty
type Course = learning.Course
type CoursePrerequisite = learning.CoursePrerequisite
type Lesson = learning.Lesson
type QuizQuestion = learning.QuizQuestion
type QuizSubmission = learning.QuizSubmission
type ProgressStatus = learning.ProgressStatus
type UserProgress = learning.UserProgress

type AchievementCategory = gamification.Category
type CriteriaKind = gamification.CriteriaKind
type Criteria = gamification.Criteria
type Achievement = gamification.Achievement
type UserAchievement = gamification.UserAchievement

const (
	DifficultyBeginner     = learning.DifficultyBeginner
	DifficultyIntermediate = learning.DifficultyIntermediate
	DifficultyAdvanced     = learning.DifficultyAdvanced

	StatusNotStarted = learning.StatusNotStarted
	StatusInProgress = learning.StatusInProgress
	StatusCompleted  = learning.StatusCompleted

	CategoryMilestone        = gamification.CategoryMilestone
	CategoryQuizMaster       = gamification.CategoryQuizMaster
	CategoryStreak           = gamification.CategoryStreak
	CategoryCourseCompletion = gamification.CategoryCourseCompletion
	CategorySpecial          = gamification.CategorySpecial

	CriteriaLessonsCompletedAtLeast = gamification.CriteriaLessonsCompletedAtLeast
	CriteriaCoursesCompletedAtLeast = gamification.CriteriaCoursesCompletedAtLeast
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Course{},
		&CoursePrerequisite{},
		&Lesson{},
		&QuizQuestion{},
		&QuizSubmission{},
		&UserProgress{},
		&Achievement{},
		&UserAchievement{},
	}
}
