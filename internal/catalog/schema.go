package catalog

import (
	"fmt"
	"regexp"
)

const (
	CatalogKind            = "catalog"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

// Difficulty is a CEFR level. The catalog only spans A1 through B2.
type Difficulty string

const (
	A1 Difficulty = "A1"
	A2 Difficulty = "A2"
	B1 Difficulty = "B1"
	B2 Difficulty = "B2"
)

var difficultyRank = map[Difficulty]int{A1: 1, A2: 2, B1: 3, B2: 4}

var difficultyLabel = map[Difficulty]string{
	A1: "Beginner",
	A2: "Elementary",
	B1: "Intermediate",
	B2: "Upper Intermediate",
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyRank[d]
	return ok
}

// Rank returns 1..4 for valid levels and 0 otherwise.
func (d Difficulty) Rank() int { return difficultyRank[d] }

func (d Difficulty) Less(other Difficulty) bool { return d.Rank() < other.Rank() }

func (d Difficulty) Label() string { return difficultyLabel[d] }

type Document struct {
	Kind          string   `yaml:"kind"`
	SchemaVersion int      `yaml:"schema_version"`
	CatalogID     string   `yaml:"catalog_id"`
	Name          string   `yaml:"name"`
	Version       string   `yaml:"version"`
	Courses       []Course `yaml:"courses"`
	Topics        []Topic  `yaml:"topics"`
	Lessons       []Lesson `yaml:"lessons"`

	Path string `yaml:"-"`
}

type Course struct {
	CourseID       string     `yaml:"course_id"`
	Level          Difficulty `yaml:"level"`
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	Topics         []string   `yaml:"topics"`
	EstimatedHours int        `yaml:"estimated_hours"`
	Color          string     `yaml:"color"`
	BgColor        string     `yaml:"bg_color"`
}

type Topic struct {
	TopicID     string     `yaml:"topic_id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Icon        string     `yaml:"icon"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Lessons     []string   `yaml:"lessons"`
}

type Lesson struct {
	LessonID    string      `yaml:"lesson_id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Difficulty  Difficulty  `yaml:"difficulty"`
	KeyPoints   []string    `yaml:"key_points"`
	Media       []MediaItem `yaml:"media"`
	Examples    []Example   `yaml:"examples"`
	Practice    *Exercise   `yaml:"practice"`
}

type MediaItem struct {
	Type        string `yaml:"type"`
	URL         string `yaml:"url"`
	Placeholder string `yaml:"placeholder"`
	Caption     string `yaml:"caption"`
}

type Example struct {
	Sentence    string `yaml:"sentence"`
	Explanation string `yaml:"explanation"`
}

// Exercise is a single multiple-choice practice question.
type Exercise struct {
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectOption int      `yaml:"correct_option"`
	Explanation   string   `yaml:"explanation"`
}

func (d Document) Validate() error {
	if d.Kind != CatalogKind {
		return fmt.Errorf("kind must be %q", CatalogKind)
	}
	if d.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if d.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported catalog schema_version %d (max supported %d)", d.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(d.CatalogID) {
		return fmt.Errorf("invalid catalog_id %q", d.CatalogID)
	}
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(d.Courses) == 0 {
		return fmt.Errorf("catalog must contain at least one course")
	}
	for _, c := range d.Courses {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("course %q: %w", c.CourseID, err)
		}
	}
	for _, t := range d.Topics {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("topic %q: %w", t.TopicID, err)
		}
	}
	for _, l := range d.Lessons {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lesson %q: %w", l.LessonID, err)
		}
	}
	return nil
}

func (c Course) Validate() error {
	if !idPattern.MatchString(c.CourseID) {
		return fmt.Errorf("invalid course_id %q", c.CourseID)
	}
	if !c.Level.Valid() {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.EstimatedHours <= 0 {
		return fmt.Errorf("estimated_hours must be >0")
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("topics must contain at least one item")
	}
	return nil
}

func (t Topic) Validate() error {
	if !idPattern.MatchString(t.TopicID) {
		return fmt.Errorf("invalid topic_id %q", t.TopicID)
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !t.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", t.Difficulty)
	}
	if len(t.Lessons) == 0 {
		return fmt.Errorf("lessons must contain at least one item")
	}
	return nil
}

func (l Lesson) Validate() error {
	if !idPattern.MatchString(l.LessonID) {
		return fmt.Errorf("invalid lesson_id %q", l.LessonID)
	}
	if l.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !l.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", l.Difficulty)
	}
	for i, m := range l.Media {
		switch m.Type {
		case "image", "video":
		default:
			return fmt.Errorf("media[%d].type must be image or video", i)
		}
		if m.Placeholder == "" {
			return fmt.Errorf("media[%d].placeholder is required", i)
		}
	}
	for i, ex := range l.Examples {
		if ex.Sentence == "" {
			return fmt.Errorf("examples[%d].sentence is required", i)
		}
	}
	if l.Practice != nil {
		if err := l.Practice.Validate(); err != nil {
			return fmt.Errorf("practice: %w", err)
		}
	}
	return nil
}

func (e Exercise) Validate() error {
	if e.Question == "" {
		return fmt.Errorf("question is required")
	}
	if len(e.Options) < 2 {
		return fmt.Errorf("options must contain at least two items")
	}
	if e.CorrectOption < 0 || e.CorrectOption >= len(e.Options) {
		return fmt.Errorf("correct_option %d out of range 0..%d", e.CorrectOption, len(e.Options)-1)
	}
	return nil
}
