package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const publishedCoursesKey = "catalog:courses:published"

// CatalogCache holds the published course list between catalog changes.
type CatalogCache interface {
	GetCourses(ctx context.Context) ([]*types.Course, bool)
	SetCourses(ctx context.Context, courses []*types.Course)
	Invalidate(ctx context.Context) error
}

type redisCatalogCache struct {
	rdb goredis.UniversalClient
	log *logger.Logger
	ttl time.Duration
}

// NewCatalogCache returns a redis-backed cache, or a no-op cache when rdb is nil.
func NewCatalogCache(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) CatalogCache {
	if rdb == nil {
		return noopCatalogCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCatalogCache{rdb: rdb, log: log.With("cache", "CatalogCache"), ttl: ttl}
}

func (c *redisCatalogCache) GetCourses(ctx context.Context) ([]*types.Course, bool) {
	raw, err := c.rdb.Get(ctx, publishedCoursesKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("catalog cache read failed", "error", err)
		}
		return nil, false
	}
	var courses []*types.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.Warn("catalog cache decode failed", "error", err)
		return nil, false
	}
	return courses, true
}

func (c *redisCatalogCache) SetCourses(ctx context.Context, courses []*types.Course) {
	raw, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, publishedCoursesKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", "error", err)
	}
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, publishedCoursesKey).Err()
}

type noopCatalogCache struct{}

func (noopCatalogCache) GetCourses(context.Context) ([]*types.Course, bool) { return nil, false }
func (noopCatalogCache) SetCourses(context.Context, []*types.Course)        {}
func (noopCatalogCache) Invalidate(context.Context) error                   { return nil }
