package roadmap

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/domain/learning"
)

func course(title string, d learning.Difficulty, order int) *learning.Course {
	return &learning.Course{ID: uuid.New(), Title: title, DifficultyLevel: d, OrderIndex: order, IsPublished: true}
}

func TestBuildOrdersByDifficultyThenOrderIndex(t *testing.T) {
	adv := course("adv", learning.DifficultyAdvanced, 0)
	mid := course("mid", learning.DifficultyIntermediate, 0)
	b2 := course("b2", learning.DifficultyBeginner, 2)
	b1 := course("b1", learning.DifficultyBeginner, 1)

	got := Build([]*learning.Course{adv, mid, b2, b1}, nil, nil)
	want := []*learning.Course{b1, b2, mid, adv}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Course != want[i] || got[i].Position != i {
			t.Fatalf("position %d: expected %s, got %s", i, want[i].Title, got[i].Course.Title)
		}
	}
}

func TestBuildLinearUnlocking(t *testing.T) {
	a := course("a", learning.DifficultyBeginner, 1)
	b := course("b", learning.DifficultyBeginner, 2)
	c := course("c", learning.DifficultyIntermediate, 1)

	progress := map[uuid.UUID]*learning.UserProgress{
		a.ID: {CourseID: a.ID, Status: learning.StatusCompleted, CompletionPercentage: 100},
		b.ID: {CourseID: b.ID, Status: learning.StatusInProgress, CompletionPercentage: 40},
	}
	got := Build([]*learning.Course{c, b, a}, progress, nil)

	if !got[0].IsUnlocked || !got[0].IsCompleted || len(got[0].Prerequisites) != 0 {
		t.Fatalf("first entry must be unlocked with no prerequisites: %+v", got[0])
	}
	if !got[1].IsUnlocked || got[1].Status != learning.StatusInProgress || got[1].CompletionPercentage != 40 {
		t.Fatalf("second entry must unlock after first completes: %+v", got[1])
	}
	if len(got[1].Prerequisites) != 1 || got[1].Prerequisites[0] != a.ID {
		t.Fatalf("second entry prerequisite must be the first course: %+v", got[1].Prerequisites)
	}
	if got[2].IsUnlocked || got[2].Status != learning.StatusNotStarted {
		t.Fatalf("third entry must stay locked: %+v", got[2])
	}
}

func TestBuildReportsDeclaredPrerequisitesWithoutGating(t *testing.T) {
	a := course("a", learning.DifficultyBeginner, 1)
	b := course("b", learning.DifficultyBeginner, 2)
	declared := []*learning.CoursePrerequisite{{CourseID: a.ID, PrerequisiteCourseID: b.ID}}

	got := Build([]*learning.Course{a, b}, nil, declared)
	if !got[0].IsUnlocked {
		t.Fatalf("declared edges must not lock the first course")
	}
	if len(got[0].DeclaredPrerequisiteIDs) != 1 || got[0].DeclaredPrerequisiteIDs[0] != b.ID {
		t.Fatalf("declared prerequisites not reported: %+v", got[0].DeclaredPrerequisiteIDs)
	}
	if got[1].DeclaredPrerequisiteIDs == nil {
		t.Fatalf("declared prerequisites must be an empty list, not nil")
	}
}

func TestBuildEmpty(t *testing.T) {
	if got := Build(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty roadmap")
	}
}
