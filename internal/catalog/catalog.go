package catalog

import "fmt"

// Catalog is the immutable course -> topic -> lesson tree. It is safe for
// concurrent reads once built.
type Catalog struct {
	doc Document

	lessonIdx map[string]int
	topicIdx  map[string]int
	courseIdx map[string]int

	lessonTopic map[string]string
	topicCourse map[string]string
}

// Placement is a lesson together with the topic and course that contain it.
type Placement struct {
	Lesson Lesson
	Topic  Topic
	Course Course
}

// New indexes a validated document and enforces the tree invariants: every
// referenced id exists, and every lesson and topic has exactly one parent.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		doc:         doc,
		lessonIdx:   make(map[string]int, len(doc.Lessons)),
		topicIdx:    make(map[string]int, len(doc.Topics)),
		courseIdx:   make(map[string]int, len(doc.Courses)),
		lessonTopic: make(map[string]string, len(doc.Lessons)),
		topicCourse: make(map[string]string, len(doc.Topics)),
	}
	for i, l := range doc.Lessons {
		if _, ok := c.lessonIdx[l.LessonID]; ok {
			return nil, fmt.Errorf("duplicate lesson_id %q", l.LessonID)
		}
		c.lessonIdx[l.LessonID] = i
	}
	for i, t := range doc.Topics {
		if _, ok := c.topicIdx[t.TopicID]; ok {
			return nil, fmt.Errorf("duplicate topic_id %q", t.TopicID)
		}
		c.topicIdx[t.TopicID] = i
		for _, lessonID := range t.Lessons {
			if _, ok := c.lessonIdx[lessonID]; !ok {
				return nil, fmt.Errorf("topic %q references unknown lesson %q", t.TopicID, lessonID)
			}
			if owner, ok := c.lessonTopic[lessonID]; ok {
				return nil, fmt.Errorf("lesson %q belongs to both %q and %q", lessonID, owner, t.TopicID)
			}
			c.lessonTopic[lessonID] = t.TopicID
		}
	}
	for i, course := range doc.Courses {
		if _, ok := c.courseIdx[course.CourseID]; ok {
			return nil, fmt.Errorf("duplicate course_id %q", course.CourseID)
		}
		c.courseIdx[course.CourseID] = i
		for _, topicID := range course.Topics {
			if _, ok := c.topicIdx[topicID]; !ok {
				return nil, fmt.Errorf("course %q references unknown topic %q", course.CourseID, topicID)
			}
			if owner, ok := c.topicCourse[topicID]; ok {
				return nil, fmt.Errorf("topic %q belongs to both %q and %q", topicID, owner, course.CourseID)
			}
			c.topicCourse[topicID] = course.CourseID
		}
	}
	for _, l := range doc.Lessons {
		if _, ok := c.lessonTopic[l.LessonID]; !ok {
			return nil, fmt.Errorf("lesson %q is not referenced by any topic", l.LessonID)
		}
	}
	for _, t := range doc.Topics {
		if _, ok := c.topicCourse[t.TopicID]; !ok {
			return nil, fmt.Errorf("topic %q is not referenced by any course", t.TopicID)
		}
	}
	return c, nil
}

func (c *Catalog) ID() string      { return c.doc.CatalogID }
func (c *Catalog) Name() string    { return c.doc.Name }
func (c *Catalog) Version() string { return c.doc.Version }

func (c *Catalog) Courses() []Course { return append([]Course(nil), c.doc.Courses...) }
func (c *Catalog) Topics() []Topic   { return append([]Topic(nil), c.doc.Topics...) }
func (c *Catalog) Lessons() []Lesson { return append([]Lesson(nil), c.doc.Lessons...) }

func (c *Catalog) Lesson(id string) (Lesson, bool) {
	i, ok := c.lessonIdx[id]
	if !ok {
		return Lesson{}, false
	}
	return c.doc.Lessons[i], true
}

func (c *Catalog) Topic(id string) (Topic, bool) {
	i, ok := c.topicIdx[id]
	if !ok {
		return Topic{}, false
	}
	return c.doc.Topics[i], true
}

func (c *Catalog) Course(id string) (Course, bool) {
	i, ok := c.courseIdx[id]
	if !ok {
		return Course{}, false
	}
	return c.doc.Courses[i], true
}

// LessonsByTopic returns the topic's lessons in topic order. Unknown topics
// yield an empty result.
func (c *Catalog) LessonsByTopic(topicID string) []Lesson {
	t, ok := c.Topic(topicID)
	if !ok {
		return nil
	}
	out := make([]Lesson, 0, len(t.Lessons))
	for _, id := range t.Lessons {
		if l, ok := c.Lesson(id); ok {
			out = append(out, l)
		}
	}
	return out
}

// TopicsByCourse returns the course's topics in course order.
func (c *Catalog) TopicsByCourse(courseID string) []Topic {
	course, ok := c.Course(courseID)
	if !ok {
		return nil
	}
	out := make([]Topic, 0, len(course.Topics))
	for _, id := range course.Topics {
		if t, ok := c.Topic(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// CourseLessons flattens every topic of a course into one ordered id list.
func (c *Catalog) CourseLessons(courseID string) []string {
	out := []string{}
	for _, t := range c.TopicsByCourse(courseID) {
		out = append(out, t.Lessons...)
	}
	return out
}

func (c *Catalog) Resolve(lessonID string) (Placement, bool) {
	lesson, ok := c.Lesson(lessonID)
	if !ok {
		return Placement{}, false
	}
	topic, _ := c.Topic(c.lessonTopic[lessonID])
	course, _ := c.Course(c.topicCourse[topic.TopicID])
	return Placement{Lesson: lesson, Topic: topic, Course: course}, true
}

// CourseForView maps a course id or lesson id to the course being viewed.
// Anything else falls back to the first course.
func (c *Catalog) CourseForView(id string) Course {
	if course, ok := c.Course(id); ok {
		return course
	}
	if p, ok := c.Resolve(id); ok {
		return p.Course
	}
	return c.doc.Courses[0]
}
