package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/platform/pointers"
)

// CacheInvalidator drops cached catalog reads after a seed commits.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type SeederDeps struct {
	Log          *logger.Logger
	Runner       dataagg.TxRunner
	Courses      repos.CourseRepo
	Prereqs      repos.CoursePrerequisiteRepo
	Lessons      repos.LessonRepo
	Questions    repos.QuizQuestionRepo
	Achievements repos.AchievementRepo
	Cache        CacheInvalidator
}

type Seeder struct {
	deps SeederDeps
	log  *logger.Logger
}

// Result counts rows written by one Apply; unchanged rows are not counted.
type Result struct {
	CoursesCreated      int
	CoursesUpdated      int
	LessonsCreated      int
	LessonsUpdated      int
	QuestionsCreated    int
	QuestionsUpdated    int
	AchievementsCreated int
	AchievementsUpdated int
}

func NewSeeder(deps SeederDeps) *Seeder {
	return &Seeder{deps: deps, log: deps.Log.With("component", "CatalogSeeder")}
}

// Apply upserts c in one transaction, keyed on course title, lesson title within its
// course, question order within its lesson and achievement name. Rows absent from c
// are left alone.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	const op = "Catalog.Apply"
	var res Result
	if err := Validate(c); err != nil {
		return res, err
	}
	err := s.deps.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		res = Result{}
		ids := make(map[string]uuid.UUID, len(c.Courses))
		for _, cs := range c.Courses {
			id, err := s.upsertCourse(dbc, cs, &res)
			if err != nil {
				return err
			}
			ids[cs.Key] = id
		}
		edges := make([]*types.CoursePrerequisite, 0)
		for _, cs := range c.Courses {
			for _, pre := range cs.Prerequisites {
				edges = append(edges, &types.CoursePrerequisite{CourseID: ids[cs.Key], PrerequisiteCourseID: ids[pre]})
			}
		}
		if err := s.deps.Prereqs.Upsert(dbc.Ctx, dbc.Tx, edges); err != nil {
			return err
		}
		for _, as := range c.Achievements {
			if err := s.upsertAchievement(dbc, as, &res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, dataagg.MapError(op, err)
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.InvalidateCache(ctx); err != nil {
			s.log.Warn("catalog cache invalidation failed", "error", err)
		}
	}
	s.log.Info("catalog applied",
		"courses_created", res.CoursesCreated,
		"courses_updated", res.CoursesUpdated,
		"lessons_created", res.LessonsCreated,
		"questions_created", res.QuestionsCreated,
		"achievements_created", res.AchievementsCreated,
	)
	return res, nil
}

func (s *Seeder) upsertCourse(dbc dbctx.Context, cs CourseDef, res *Result) (uuid.UUID, error) {
	existing, err := s.deps.Courses.GetByTitle(dbc.Ctx, dbc.Tx, cs.Title)
	if err != nil {
		return uuid.Nil, err
	}
	want := &types.Course{
		Title:                  cs.Title,
		Description:            strings.TrimSpace(cs.Description),
		DifficultyLevel:        types.Difficulty(cs.Difficulty),
		EstimatedDurationHours: cs.EstimatedHours,
		ThumbnailURL:           optional(cs.ThumbnailURL),
		IsPublished:            cs.published(),
		OrderIndex:             cs.Order,
	}
	var courseID uuid.UUID
	switch {
	case existing == nil:
		if _, err := s.deps.Courses.Create(dbc.Ctx, dbc.Tx, []*types.Course{want}); err != nil {
			return uuid.Nil, err
		}
		res.CoursesCreated++
		courseID = want.ID
	case courseChanged(existing, want):
		want.ID, want.CreatedAt = existing.ID, existing.CreatedAt
		if err := s.deps.Courses.Save(dbc.Ctx, dbc.Tx, want); err != nil {
			return uuid.Nil, err
		}
		res.CoursesUpdated++
		courseID = existing.ID
	default:
		courseID = existing.ID
	}

	for _, ls := range cs.Lessons {
		if err := s.upsertLesson(dbc, courseID, ls, res); err != nil {
			return uuid.Nil, err
		}
	}
	return courseID, nil
}

func (s *Seeder) upsertLesson(dbc dbctx.Context, courseID uuid.UUID, ls LessonDef, res *Result) error {
	existing, err := s.deps.Lessons.GetByCourseAndTitle(dbc.Ctx, dbc.Tx, courseID, ls.Title)
	if err != nil {
		return err
	}
	want := &types.Lesson{
		CourseID:            courseID,
		Title:               ls.Title,
		Content:             strings.TrimSpace(ls.Content),
		CodeTemplate:        optional(ls.CodeTemplate),
		ProgrammingLanguage: optional(ls.Language),
		XPReward:            ls.xpReward(),
		OrderIndex:          ls.Order,
		IsPublished:         ls.published(),
	}
	var lessonID uuid.UUID
	switch {
	case existing == nil:
		// xp_reward 0 loses to the column default on insert.
		zeroXP := want.XPReward == 0
		if _, err := s.deps.Lessons.Create(dbc.Ctx, dbc.Tx, []*types.Lesson{want}); err != nil {
			return err
		}
		if zeroXP {
			want.XPReward = 0
			if err := s.deps.Lessons.Save(dbc.Ctx, dbc.Tx, want); err != nil {
				return err
			}
		}
		res.LessonsCreated++
		lessonID = want.ID
	case lessonChanged(existing, want):
		want.ID, want.CreatedAt = existing.ID, existing.CreatedAt
		if err := s.deps.Lessons.Save(dbc.Ctx, dbc.Tx, want); err != nil {
			return err
		}
		res.LessonsUpdated++
		lessonID = existing.ID
	default:
		lessonID = existing.ID
	}

	for i, qs := range ls.Quiz {
		if err := s.upsertQuestion(dbc, lessonID, i+1, qs, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) upsertQuestion(dbc dbctx.Context, lessonID uuid.UUID, order int, qs QuestionDef, res *Result) error {
	existing, err := s.deps.Questions.GetByLessonAndOrder(dbc.Ctx, dbc.Tx, lessonID, order)
	if err != nil {
		return err
	}
	want := &types.QuizQuestion{
		LessonID:           lessonID,
		QuestionText:       strings.TrimSpace(qs.Question),
		Options:            append([]string(nil), qs.Options...),
		CorrectAnswerIndex: qs.Correct,
		Explanation:        optional(qs.Explanation),
		OrderIndex:         order,
	}
	if existing == nil {
		if _, err := s.deps.Questions.Create(dbc.Ctx, dbc.Tx, []*types.QuizQuestion{want}); err != nil {
			return err
		}
		res.QuestionsCreated++
		return nil
	}
	if !questionChanged(existing, want) {
		return nil
	}
	want.ID, want.CreatedAt = existing.ID, existing.CreatedAt
	if err := s.deps.Questions.Save(dbc.Ctx, dbc.Tx, want); err != nil {
		return err
	}
	res.QuestionsUpdated++
	return nil
}

func (s *Seeder) upsertAchievement(dbc dbctx.Context, as AchievementDef, res *Result) error {
	existing, err := s.deps.Achievements.GetByName(dbc.Ctx, dbc.Tx, as.Name)
	if err != nil {
		return err
	}
	want := &types.Achievement{
		Name:        as.Name,
		Description: strings.TrimSpace(as.Description),
		BadgeIcon:   as.BadgeIcon,
		BadgeColor:  as.BadgeColor,
		XPReward:    as.XPReward,
		Category:    types.AchievementCategory(as.Category),
		Criteria: types.Criteria{
			Kind:      types.CriteriaKind(as.Criteria.Kind),
			Threshold: as.Criteria.Threshold,
		},
		IsActive: as.active(),
	}
	switch {
	case existing == nil:
		// is_active false loses to the column default on insert.
		inactive := !want.IsActive
		if _, err := s.deps.Achievements.Create(dbc.Ctx, dbc.Tx, []*types.Achievement{want}); err != nil {
			return err
		}
		if inactive {
			want.IsActive = false
			if err := s.deps.Achievements.Save(dbc.Ctx, dbc.Tx, want); err != nil {
				return err
			}
		}
		res.AchievementsCreated++
	case achievementChanged(existing, want):
		want.ID, want.CreatedAt = existing.ID, existing.CreatedAt
		if err := s.deps.Achievements.Save(dbc.Ctx, dbc.Tx, want); err != nil {
			return err
		}
		res.AchievementsUpdated++
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return pointers.Ptr(s)
}

// sameOptional treats nil and "" alike.
func sameOptional(a, b *string) bool {
	return pointers.Deref(a) == pointers.Deref(b)
}

func courseChanged(have, want *types.Course) bool {
	return have.Description != want.Description ||
		have.DifficultyLevel != want.DifficultyLevel ||
		have.EstimatedDurationHours != want.EstimatedDurationHours ||
		!sameOptional(have.ThumbnailURL, want.ThumbnailURL) ||
		have.IsPublished != want.IsPublished ||
		have.OrderIndex != want.OrderIndex
}

func lessonChanged(have, want *types.Lesson) bool {
	return have.Content != want.Content ||
		!sameOptional(have.CodeTemplate, want.CodeTemplate) ||
		!sameOptional(have.ProgrammingLanguage, want.ProgrammingLanguage) ||
		have.XPReward != want.XPReward ||
		have.OrderIndex != want.OrderIndex ||
		have.IsPublished != want.IsPublished
}

func questionChanged(have, want *types.QuizQuestion) bool {
	if have.QuestionText != want.QuestionText ||
		have.CorrectAnswerIndex != want.CorrectAnswerIndex ||
		!sameOptional(have.Explanation, want.Explanation) ||
		len(have.Options) != len(want.Options) {
		return true
	}
	for i := range have.Options {
		if have.Options[i] != want.Options[i] {
			return true
		}
	}
	return false
}

func achievementChanged(have, want *types.Achievement) bool {
	return have.Description != want.Description ||
		have.BadgeIcon != want.BadgeIcon ||
		have.BadgeColor != want.BadgeColor ||
		have.XPReward != want.XPReward ||
		have.Category != want.Category ||
		have.Criteria != want.Criteria ||
		have.IsActive != want.IsActive
}
