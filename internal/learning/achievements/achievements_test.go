package achievements

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/domain/gamification"
)

func crit(kind gamification.CriteriaKind, n int) gamification.Criteria {
	return gamification.Criteria{Kind: kind, Threshold: n}
}

func TestEvaluateCategoryDispatch(t *testing.T) {
	stats := Stats{LessonsCompleted: 3, CoursesCompleted: 1}
	cases := []struct {
		name     string
		category gamification.Category
		criteria gamification.Criteria
		want     bool
	}{
		{"milestone reached", gamification.CategoryMilestone, crit(gamification.CriteriaLessonsCompletedAtLeast, 3), true},
		{"milestone not reached", gamification.CategoryMilestone, crit(gamification.CriteriaLessonsCompletedAtLeast, 4), false},
		{"course completion reached", gamification.CategoryCourseCompletion, crit(gamification.CriteriaCoursesCompletedAtLeast, 1), true},
		{"milestone with course kind", gamification.CategoryMilestone, crit(gamification.CriteriaCoursesCompletedAtLeast, 1), false},
		{"course completion with lesson kind", gamification.CategoryCourseCompletion, crit(gamification.CriteriaLessonsCompletedAtLeast, 1), false},
		{"quiz master never auto", gamification.CategoryQuizMaster, crit(gamification.CriteriaLessonsCompletedAtLeast, 1), false},
		{"streak never auto", gamification.CategoryStreak, crit(gamification.CriteriaLessonsCompletedAtLeast, 1), false},
		{"special never auto", gamification.CategorySpecial, crit(gamification.CriteriaCoursesCompletedAtLeast, 1), false},
		{"zero threshold", gamification.CategoryMilestone, crit(gamification.CriteriaLessonsCompletedAtLeast, 0), false},
	}
	for _, tc := range cases {
		if got := Evaluate(tc.category, tc.criteria, stats); got != tc.want {
			t.Fatalf("%s: Evaluate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEligibleSkipsEarnedAndInactive(t *testing.T) {
	first := &gamification.Achievement{ID: uuid.New(), Name: "first", Category: gamification.CategoryMilestone, Criteria: crit(gamification.CriteriaLessonsCompletedAtLeast, 1), IsActive: true}
	earned := &gamification.Achievement{ID: uuid.New(), Name: "earned", Category: gamification.CategoryMilestone, Criteria: crit(gamification.CriteriaLessonsCompletedAtLeast, 1), IsActive: true}
	inactive := &gamification.Achievement{ID: uuid.New(), Name: "inactive", Category: gamification.CategoryMilestone, Criteria: crit(gamification.CriteriaLessonsCompletedAtLeast, 1)}
	grad := &gamification.Achievement{ID: uuid.New(), Name: "grad", Category: gamification.CategoryCourseCompletion, Criteria: crit(gamification.CriteriaCoursesCompletedAtLeast, 1), IsActive: true}

	got := Eligible([]*gamification.Achievement{first, earned, inactive, nil, grad}, []uuid.UUID{earned.ID}, Stats{LessonsCompleted: 1, CoursesCompleted: 1})
	if len(got) != 2 || got[0] != first || got[1] != grad {
		t.Fatalf("unexpected eligible set: %+v", got)
	}

	none := Eligible([]*gamification.Achievement{first}, nil, Stats{})
	if len(none) != 0 {
		t.Fatalf("expected nothing eligible with zero stats")
	}
}
