// Package achievements decides which catalog entries a user's counters unlock.
package achievements

import (
	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/domain/gamification"
)

// Stats are the counters criteria are evaluated against.
type Stats struct {
	LessonsCompleted int
	CoursesCompleted int
}

// Evaluate dispatches on category: milestone entries read lessons completed and
// course_completion entries read courses completed. A criteria kind that does not
// belong to its category never matches, and other categories are never awarded here.
func Evaluate(category gamification.Category, c gamification.Criteria, s Stats) bool {
	if c.Threshold < 1 {
		return false
	}
	switch category {
	case gamification.CategoryMilestone:
		return c.Kind == gamification.CriteriaLessonsCompletedAtLeast && s.LessonsCompleted >= c.Threshold
	case gamification.CategoryCourseCompletion:
		return c.Kind == gamification.CriteriaCoursesCompletedAtLeast && s.CoursesCompleted >= c.Threshold
	default:
		return false
	}
}

// Eligible returns active, unearned entries whose criteria hold, in catalog order.
func Eligible(catalog []*gamification.Achievement, earned []uuid.UUID, s Stats) []*gamification.Achievement {
	have := make(map[uuid.UUID]struct{}, len(earned))
	for _, id := range earned {
		have[id] = struct{}{}
	}
	out := make([]*gamification.Achievement, 0)
	for _, a := range catalog {
		if a == nil || !a.IsActive {
			continue
		}
		if _, ok := have[a.ID]; ok {
			continue
		}
		if Evaluate(a.Category, a.Criteria, s) {
			out = append(out, a)
		}
	}
	return out
}
