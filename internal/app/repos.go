package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/data/repos"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type Repos struct {
	User               repos.UserRepo
	Course             repos.CourseRepo
	CoursePrerequisite repos.CoursePrerequisiteRepo
	Lesson             repos.LessonRepo
	QuizQuestion       repos.QuizQuestionRepo
	QuizSubmission     repos.QuizSubmissionRepo
	UserProgress       repos.UserProgressRepo
	Achievement        repos.AchievementRepo
	UserAchievement    repos.UserAchievementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		Course:             repos.NewCourseRepo(db, log),
		CoursePrerequisite: repos.NewCoursePrerequisiteRepo(db, log),
		Lesson:             repos.NewLessonRepo(db, log),
		QuizQuestion:       repos.NewQuizQuestionRepo(db, log),
		QuizSubmission:     repos.NewQuizSubmissionRepo(db, log),
		UserProgress:       repos.NewUserProgressRepo(db, log),
		Achievement:        repos.NewAchievementRepo(db, log),
		UserAchievement:    repos.NewUserAchievementRepo(db, log),
	}
}
