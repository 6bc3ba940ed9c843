package progress

import (
	"math"
	"sort"
)

// TopicProgress is a cached view derived from CompletedLessons and the
// topic's lesson list.
type TopicProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// UserProgress is the persisted learning record of the single local user.
// Field names match the stored JSON blob.
type UserProgress struct {
	CompletedLessons []string                 `json:"completedLessons"`
	TimeSpent        map[string]int           `json:"timeSpent"`
	QuizScores       map[string]int           `json:"quizScores"`
	TopicProgress    map[string]TopicProgress `json:"topicProgress"`
	StudyStreak      int                      `json:"studyStreak"`
	LastStudyDate    string                   `json:"lastStudyDate,omitempty"`
}

// Default is the zero-valued record used for new users and for unreadable
// storage.
func Default() UserProgress {
	return UserProgress{
		CompletedLessons: []string{},
		TimeSpent:        map[string]int{},
		QuizScores:       map[string]int{},
		TopicProgress:    map[string]TopicProgress{},
	}
}

func (p UserProgress) Clone() UserProgress {
	out := Default()
	out.CompletedLessons = append(out.CompletedLessons, p.CompletedLessons...)
	for k, v := range p.TimeSpent {
		out.TimeSpent[k] = v
	}
	for k, v := range p.QuizScores {
		out.QuizScores[k] = v
	}
	for k, v := range p.TopicProgress {
		out.TopicProgress[k] = v
	}
	out.StudyStreak = p.StudyStreak
	out.LastStudyDate = p.LastStudyDate
	return out
}

func (p UserProgress) IsCompleted(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

func (p UserProgress) TotalMinutes() int {
	total := 0
	for _, m := range p.TimeSpent {
		total += m
	}
	return total
}

// AverageQuizScore is the rounded mean of all recorded scores, 0 when none.
func (p UserProgress) AverageQuizScore() int {
	if len(p.QuizScores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range p.QuizScores {
		sum += s
	}
	return roundHalfUp(float64(sum) / float64(len(p.QuizScores)))
}

// CompletedTopics counts topics whose cached percentage is 100.
func (p UserProgress) CompletedTopics() int {
	n := 0
	for _, tp := range p.TopicProgress {
		if tp.Percentage == 100 {
			n++
		}
	}
	return n
}

// ComputeTopicProgress counts how many of topicLessonIDs are completed.
func ComputeTopicProgress(completed []string, topicLessonIDs []string) TopicProgress {
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(topicLessonIDs))
	out := TopicProgress{}
	for _, id := range topicLessonIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.Total++
		if _, ok := done[id]; ok {
			out.Completed++
		}
	}
	out.Percentage = Percent(out.Completed, out.Total)
	return out
}

// Percent returns round(100*part/whole), or 0 for an empty whole.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return roundHalfUp(100 * float64(part) / float64(whole))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// normalize repairs records written by older builds or by hand: nil maps,
// duplicate or blank lesson ids, negative counters.
func normalize(p *UserProgress) {
	if p.TimeSpent == nil {
		p.TimeSpent = map[string]int{}
	}
	if p.QuizScores == nil {
		p.QuizScores = map[string]int{}
	}
	if p.TopicProgress == nil {
		p.TopicProgress = map[string]TopicProgress{}
	}
	seen := make(map[string]struct{}, len(p.CompletedLessons))
	ids := make([]string, 0, len(p.CompletedLessons))
	for _, id := range p.CompletedLessons {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	p.CompletedLessons = ids
	for k, v := range p.TimeSpent {
		if v < 0 {
			p.TimeSpent[k] = 0
		}
	}
	for k, v := range p.QuizScores {
		p.QuizScores[k] = clampScore(v)
	}
	if p.StudyStreak < 0 {
		p.StudyStreak = 0
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
