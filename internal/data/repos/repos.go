package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/data/repos/gamification"
	"github.com/yungbote/questlearn-backend/internal/data/repos/learning"
	"github.com/yungbote/questlearn-backend/internal/data/repos/user"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type CoursePrerequisiteRepo = learning.CoursePrerequisiteRepo
type LessonRepo = learning.LessonRepo
type QuizQuestionRepo = learning.QuizQuestionRepo
type QuizSubmissionRepo = learning.QuizSubmissionRepo
type QuizStats = learning.QuizStats
type UserProgressRepo = learning.UserProgressRepo

type AchievementRepo = gamification.AchievementRepo
type UserAchievementRepo = gamification.UserAchievementRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCoursePrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) CoursePrerequisiteRepo {
	return learning.NewCoursePrerequisiteRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return learning.NewQuizQuestionRepo(db, baseLog)
}
func NewQuizSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) QuizSubmissionRepo {
	return learning.NewQuizSubmissionRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return learning.NewUserProgressRepo(db, baseLog)
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return gamification.NewAchievementRepo(db, baseLog)
}
func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return gamification.NewUserAchievementRepo(db, baseLog)
}
