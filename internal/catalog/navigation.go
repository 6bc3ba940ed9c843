package catalog

// TopicRef is what a lesson page needs to know about its containing topic.
type TopicRef struct {
	TopicID      string
	TopicName    string
	TopicLessons []string
}

// FindTopicByLessonID scans topics in catalog order and returns the first
// one listing the lesson.
func (c *Catalog) FindTopicByLessonID(lessonID string) (TopicRef, bool) {
	for _, t := range c.doc.Topics {
		for _, id := range t.Lessons {
			if id == lessonID {
				return TopicRef{
					TopicID:      t.TopicID,
					TopicName:    t.Name,
					TopicLessons: append([]string(nil), t.Lessons...),
				}, true
			}
		}
	}
	return TopicRef{}, false
}

// NextLesson returns the lesson after lessonID within the same topic.
// There is no wraparound into the following topic.
func (c *Catalog) NextLesson(lessonID string) (string, bool) {
	ref, idx, ok := c.locate(lessonID)
	if !ok || idx == len(ref.TopicLessons)-1 {
		return "", false
	}
	return ref.TopicLessons[idx+1], true
}

// PreviousLesson returns the lesson before lessonID within the same topic.
func (c *Catalog) PreviousLesson(lessonID string) (string, bool) {
	ref, idx, ok := c.locate(lessonID)
	if !ok || idx <= 0 {
		return "", false
	}
	return ref.TopicLessons[idx-1], true
}

func (c *Catalog) locate(lessonID string) (TopicRef, int, bool) {
	ref, ok := c.FindTopicByLessonID(lessonID)
	if !ok {
		return TopicRef{}, -1, false
	}
	for i, id := range ref.TopicLessons {
		if id == lessonID {
			return ref, i, true
		}
	}
	return TopicRef{}, -1, false
}
