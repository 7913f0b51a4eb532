package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/domain/learning"
)

const defaultCatalogFile = "catalog.yaml"

//go:embed catalog.yaml
var catalogFS embed.FS

type Catalog struct {
	Courses      []CourseDef      `yaml:"courses"`
	Achievements []AchievementDef `yaml:"achievements"`
}

type CourseDef struct {
	// Key is a stable handle used by prerequisites; it is never persisted.
	Key            string      `yaml:"key"`
	Title          string      `yaml:"title"`
	Description    string      `yaml:"description"`
	Difficulty     string      `yaml:"difficulty"`
	EstimatedHours float64     `yaml:"estimated_hours"`
	ThumbnailURL   string      `yaml:"thumbnail_url"`
	Order          int         `yaml:"order"`
	Published      *bool       `yaml:"published"`
	Prerequisites  []string    `yaml:"prerequisites"`
	Lessons        []LessonDef `yaml:"lessons"`
}

type LessonDef struct {
	Title        string        `yaml:"title"`
	Content      string        `yaml:"content"`
	CodeTemplate string        `yaml:"code_template"`
	Language     string        `yaml:"language"`
	XPReward     *int          `yaml:"xp_reward"`
	Order        int           `yaml:"order"`
	Published    *bool         `yaml:"published"`
	Quiz         []QuestionDef `yaml:"quiz"`
}

type QuestionDef struct {
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Correct     int      `yaml:"correct"`
	Explanation string   `yaml:"explanation"`
}

type AchievementDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	BadgeIcon   string `yaml:"badge_icon"`
	BadgeColor  string `yaml:"badge_color"`
	XPReward    int    `yaml:"xp_reward"`
	Category    string `yaml:"category"`
	Criteria    struct {
		Kind      string `yaml:"kind"`
		Threshold int    `yaml:"threshold"`
	} `yaml:"criteria"`
	Active *bool `yaml:"active"`
}

const defaultLessonXP = 10

// Load parses path, or the embedded catalog when path is empty, and validates it.
func Load(path string) (*Catalog, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFiles parses several catalog files concurrently and merges them in argument order.
func LoadFiles(ctx context.Context, paths []string) (*Catalog, error) {
	if len(paths) == 0 {
		return Load("")
	}
	parts := make([]*Catalog, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			data, err := read(p)
			if err != nil {
				return err
			}
			var c Catalog
			if err := yaml.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			parts[i] = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := &Catalog{}
	for _, c := range parts {
		merged.Courses = append(merged.Courses, c.Courses...)
		merged.Achievements = append(merged.Achievements, c.Achievements...)
	}
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func read(path string) ([]byte, error) {
	if path = strings.TrimSpace(path); path != "" {
		return os.ReadFile(path)
	}
	return catalogFS.ReadFile(defaultCatalogFile)
}

func Validate(c *Catalog) error {
	if c == nil {
		return errors.New("missing catalog")
	}
	keys := map[string]bool{}
	titles := map[string]bool{}
	for i := range c.Courses {
		cs := &c.Courses[i]
		cs.Key = strings.TrimSpace(cs.Key)
		cs.Title = strings.TrimSpace(cs.Title)
		if cs.Key == "" {
			return fmt.Errorf("course %d: key is required", i)
		}
		if cs.Title == "" {
			return fmt.Errorf("course %s: title is required", cs.Key)
		}
		if keys[cs.Key] {
			return fmt.Errorf("duplicate course key: %s", cs.Key)
		}
		if titles[cs.Title] {
			return fmt.Errorf("duplicate course title: %s", cs.Title)
		}
		keys[cs.Key] = true
		titles[cs.Title] = true
		if !types.Difficulty(cs.Difficulty).Valid() {
			return fmt.Errorf("course %s: invalid difficulty %q", cs.Key, cs.Difficulty)
		}
		if cs.EstimatedHours < 0 {
			return fmt.Errorf("course %s: estimated_hours must be >= 0", cs.Key)
		}
		if err := validateLessons(cs); err != nil {
			return err
		}
	}
	for _, cs := range c.Courses {
		for _, pre := range cs.Prerequisites {
			if pre == cs.Key {
				return fmt.Errorf("course %s: cannot require itself", cs.Key)
			}
			if !keys[pre] {
				return fmt.Errorf("course %s: unknown prerequisite %q", cs.Key, pre)
			}
		}
	}

	names := map[string]bool{}
	for i := range c.Achievements {
		a := &c.Achievements[i]
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return fmt.Errorf("achievement %d: name is required", i)
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate achievement name: %s", a.Name)
		}
		names[a.Name] = true
		if !types.AchievementCategory(a.Category).Valid() {
			return fmt.Errorf("achievement %s: invalid category %q", a.Name, a.Category)
		}
		if a.Criteria.Kind != "" && !types.CriteriaKind(a.Criteria.Kind).Valid() {
			return fmt.Errorf("achievement %s: invalid criteria kind %q", a.Name, a.Criteria.Kind)
		}
		if a.Criteria.Kind != "" && a.Criteria.Threshold < 1 {
			return fmt.Errorf("achievement %s: threshold must be >= 1", a.Name)
		}
		if a.XPReward < 0 {
			return fmt.Errorf("achievement %s: xp_reward must be >= 0", a.Name)
		}
	}
	return nil
}

func validateLessons(cs *CourseDef) error {
	seen := map[string]bool{}
	for i := range cs.Lessons {
		ls := &cs.Lessons[i]
		ls.Title = strings.TrimSpace(ls.Title)
		if ls.Title == "" {
			return fmt.Errorf("course %s lesson %d: title is required", cs.Key, i)
		}
		if seen[ls.Title] {
			return fmt.Errorf("course %s: duplicate lesson title %q", cs.Key, ls.Title)
		}
		seen[ls.Title] = true
		if ls.XPReward != nil && *ls.XPReward < 0 {
			return fmt.Errorf("lesson %q: xp_reward must be >= 0", ls.Title)
		}
		for qi, q := range ls.Quiz {
			if strings.TrimSpace(q.Question) == "" {
				return fmt.Errorf("lesson %q question %d: text is required", ls.Title, qi+1)
			}
			if n := len(q.Options); n < learning.MinQuizOptions || n > learning.MaxQuizOptions {
				return fmt.Errorf("lesson %q question %d: needs %d-%d options, got %d",
					ls.Title, qi+1, learning.MinQuizOptions, learning.MaxQuizOptions, n)
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return fmt.Errorf("lesson %q question %d: correct index %d out of range", ls.Title, qi+1, q.Correct)
			}
		}
	}
	return nil
}

func (cs CourseDef) published() bool { return cs.Published == nil || *cs.Published }

func (ls LessonDef) published() bool { return ls.Published == nil || *ls.Published }

func (ls LessonDef) xpReward() int {
	if ls.XPReward == nil {
		return defaultLessonXP
	}
	return *ls.XPReward
}

func (a AchievementDef) active() bool { return a.Active == nil || *a.Active }
