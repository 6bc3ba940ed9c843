package catalog

import "strings"

type HitKind string

const (
	HitTopic  HitKind = "topic"
	HitLesson HitKind = "lesson"
)

type SearchHit struct {
	Kind     HitKind
	ID       string
	Title    string
	TopicID  string
	CourseID string
}

// Search does a case-insensitive substring match over topic names and lesson
// titles, descriptions and key points. Topics are listed before lessons, both
// in catalog order.
func (c *Catalog) Search(query string) []SearchHit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	hits := []SearchHit{}
	for _, t := range c.doc.Topics {
		if contains(q, t.Name, t.Description) {
			hits = append(hits, SearchHit{
				Kind:     HitTopic,
				ID:       t.TopicID,
				Title:    t.Name,
				TopicID:  t.TopicID,
				CourseID: c.topicCourse[t.TopicID],
			})
		}
	}
	for _, l := range c.doc.Lessons {
		fields := append([]string{l.Title, l.Description}, l.KeyPoints...)
		if !contains(q, fields...) {
			continue
		}
		topicID := c.lessonTopic[l.LessonID]
		hits = append(hits, SearchHit{
			Kind:     HitLesson,
			ID:       l.LessonID,
			Title:    l.Title,
			TopicID:  topicID,
			CourseID: c.topicCourse[topicID],
		})
	}
	return hits
}

func contains(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
