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

type CourseService interface {
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error)
	// WarmCache reloads the published list into the cache.
	WarmCache(ctx context.Context) error
	InvalidateCache(ctx context.Context) error
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	cache      CatalogCache
}

func NewCourseService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, cache CatalogCache) CourseService {
	serviceLog := log.With("service", "CourseService")
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &courseService{db: db, log: serviceLog, courseRepo: courseRepo, cache: cache}
}

func (cs *courseService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	if cached, ok := cs.cache.GetCourses(ctx); ok {
		return cached, nil
	}
	courses, err := cs.courseRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, dataagg.MapError("Course.List", err)
	}
	cs.cache.SetCourses(ctx, courses)
	return courses, nil
}

func (cs *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	const op = "Course.Get"
	c, err := cs.courseRepo.GetPublishedByID(ctx, nil, id)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if c == nil {
		return nil, domainagg.NotFound(op, "course not found")
	}
	return c, nil
}

func (cs *courseService) WarmCache(ctx context.Context) error {
	courses, err := cs.courseRepo.ListPublished(ctx, nil)
	if err != nil {
		return dataagg.MapError("Course.WarmCache", err)
	}
	cs.cache.SetCourses(ctx, courses)
	cs.log.Debug("catalog cache warmed", "courses", len(courses))
	return nil
}

func (cs *courseService) InvalidateCache(ctx context.Context) error {
	return cs.cache.Invalidate(ctx)
}
