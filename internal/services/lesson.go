package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const msgLessonNotFound = "lesson not found"

type LessonService interface {
	// ListByCourse returns an empty list for unknown or unpublished courses.
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error)
	GetQuizQuestions(ctx context.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error)
}

type lessonService struct {
	db           *gorm.DB
	log          *logger.Logger
	lessonRepo   repos.LessonRepo
	questionRepo repos.QuizQuestionRepo
}

func NewLessonService(db *gorm.DB, log *logger.Logger, lessonRepo repos.LessonRepo, questionRepo repos.QuizQuestionRepo) LessonService {
	serviceLog := log.With("service", "LessonService")
	return &lessonService{
		db:           db,
		log:          serviceLog,
		lessonRepo:   lessonRepo,
		questionRepo: questionRepo,
	}
}

func (ls *lessonService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	lessons, err := ls.lessonRepo.ListPublishedByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, dataagg.MapError("Lesson.ListByCourse", err)
	}
	return lessons, nil
}

func (ls *lessonService) GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	const op = "Lesson.Get"
	l, err := ls.lessonRepo.GetPublishedByID(ctx, nil, id)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if l == nil {
		return nil, domainagg.NotFound(op, msgLessonNotFound)
	}
	return l, nil
}

func (ls *lessonService) GetQuizQuestions(ctx context.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error) {
	const op = "Lesson.QuizQuestions"
	if _, err := ls.GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	qs, err := ls.questionRepo.ListByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return qs, nil
}
