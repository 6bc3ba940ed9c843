package app

import (
	"errors"
	"time"

	"tvenglish/internal/catalog"
	"tvenglish/internal/progress"
	"tvenglish/internal/quiz"
	"tvenglish/internal/state"
)

var (
	ErrUnknownLesson = errors.New("unknown lesson")
	ErrSignedOut     = errors.New("not signed in")
)

// Options carries test seams. Zero values pick the production defaults.
type Options struct {
	Notifier Notifier
	Now      func() time.Time
	KV       state.KV
	Grader   quiz.Grader
}

// Stats is the account page summary.
type Stats struct {
	Username         string
	JoinDate         time.Time
	MemberDays       int
	TotalLessons     int
	CompletedLessons int
	CompletionPct    int
	TotalMinutes     int
	AverageScore     int
	QuizzesTaken     int
	CompletedTopics  int
	StudyStreak      int
	LastStudyDate    string
	Courses          []CourseStats
}

type CourseStats struct {
	CourseID  string
	Title     string
	Level     catalog.Difficulty
	Completed int
	Total     int
	Percent   int
}

// TopicRow pairs a topic with the learner's cached progress on it.
type TopicRow struct {
	Topic    catalog.Topic
	Progress progress.TopicProgress
}

// LessonView is everything a lesson page shows.
type LessonView struct {
	Placement  catalog.Placement
	Completed  bool
	QuizScore  int
	HasScore   bool
	Minutes    int
	PreviousID string
	NextID     string
	Position   int
	TopicSize  int
}

// CompletionResult reports what CompleteLesson did.
type CompletionResult struct {
	LessonID     string
	TopicID      string
	AlreadyDone  bool
	Topic        progress.TopicProgress
	NextLessonID string
}
