// Package roadmap orders the published catalog into a linear learning path.
package roadmap

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/domain/learning"
)

type Entry struct {
	Course                  *learning.Course        `json:"course"`
	Position                int                     `json:"position"`
	Status                  learning.ProgressStatus `json:"status"`
	CompletionPercentage    float64                 `json:"completion_percentage"`
	IsUnlocked              bool                    `json:"is_unlocked"`
	IsCompleted             bool                    `json:"is_completed"`
	Prerequisites           []uuid.UUID             `json:"prerequisites"`
	DeclaredPrerequisiteIDs []uuid.UUID             `json:"declared_prerequisite_ids"`
}

// Build sorts courses by difficulty, then order_index, then id. The first course is
// always unlocked; every other course unlocks once the one before it is completed at
// course level. progress is keyed by course id and holds course-level rows only.
// declared edges are reported but never gate unlocking.
func Build(courses []*learning.Course, progress map[uuid.UUID]*learning.UserProgress, declared []*learning.CoursePrerequisite) []Entry {
	sorted := make([]*learning.Course, 0, len(courses))
	for _, c := range courses {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := a.DifficultyLevel.Rank(), b.DifficultyLevel.Rank(); ra != rb {
			return ra < rb
		}
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID.String() < b.ID.String()
	})

	declaredBy := make(map[uuid.UUID][]uuid.UUID)
	for _, e := range declared {
		if e == nil {
			continue
		}
		declaredBy[e.CourseID] = append(declaredBy[e.CourseID], e.PrerequisiteCourseID)
	}

	out := make([]Entry, 0, len(sorted))
	for i, c := range sorted {
		entry := Entry{
			Course:                  c,
			Position:                i,
			Status:                  learning.StatusNotStarted,
			Prerequisites:           []uuid.UUID{},
			DeclaredPrerequisiteIDs: declaredBy[c.ID],
		}
		if entry.DeclaredPrerequisiteIDs == nil {
			entry.DeclaredPrerequisiteIDs = []uuid.UUID{}
		}
		if p := progress[c.ID]; p != nil {
			entry.Status = p.Status
			entry.CompletionPercentage = p.CompletionPercentage
			entry.IsCompleted = p.Status == learning.StatusCompleted
		}
		if i == 0 {
			entry.IsUnlocked = true
		} else {
			prev := out[i-1]
			entry.Prerequisites = []uuid.UUID{prev.Course.ID}
			entry.IsUnlocked = prev.IsCompleted
		}
		out = append(out, entry)
	}
	return out
}
