package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/learning/roadmap"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

type RoadmapService interface {
	GetCourseRoadmap(ctx context.Context) ([]roadmap.Entry, error)
}

type roadmapService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	prereqRepo   repos.CoursePrerequisiteRepo
	progressRepo repos.UserProgressRepo
}

func NewRoadmapService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	prereqRepo repos.CoursePrerequisiteRepo,
	progressRepo repos.UserProgressRepo,
) RoadmapService {
	serviceLog := log.With("service", "RoadmapService")
	return &roadmapService{
		db:           db,
		log:          serviceLog,
		courseRepo:   courseRepo,
		prereqRepo:   prereqRepo,
		progressRepo: progressRepo,
	}
}

func (rs *roadmapService) GetCourseRoadmap(ctx context.Context) ([]roadmap.Entry, error) {
	const op = "Roadmap.Get"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	courses, err := rs.courseRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	rows, err := rs.progressRepo.ListCourseLevelByUser(ctx, nil, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	declared, err := rs.prereqRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}

	byCourse := make(map[uuid.UUID]*types.UserProgress, len(rows))
	for _, p := range rows {
		byCourse[p.CourseID] = p
	}
	return roadmap.Build(courses, byCourse, declared), nil
}
