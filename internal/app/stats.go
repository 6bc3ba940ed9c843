package app

import (
	"context"
	"time"

	"tvenglish/internal/progress"
)

// Stats summarizes the signed-in learner for the account page.
func (a *App) Stats(ctx context.Context) Stats {
	p := a.progress.GetUserProgress(ctx)
	lessons := a.catalog.Lessons()

	completed := 0
	for _, l := range lessons {
		if p.IsCompleted(l.LessonID) {
			completed++
		}
	}
	s := Stats{
		TotalLessons:     len(lessons),
		CompletedLessons: completed,
		CompletionPct:    progress.Percent(completed, len(lessons)),
		TotalMinutes:     p.TotalMinutes(),
		AverageScore:     p.AverageQuizScore(),
		QuizzesTaken:     len(p.QuizScores),
		CompletedTopics:  p.CompletedTopics(),
		StudyStreak:      p.StudyStreak,
		LastStudyDate:    p.LastStudyDate,
	}

	if prof, ok := a.profiles.GetUserProfile(ctx); ok {
		s.Username = prof.Username
		if joined, err := time.Parse(time.RFC3339, prof.JoinDate); err == nil {
			s.JoinDate = joined
			s.MemberDays = memberDays(joined, a.now())
		}
	}

	for _, c := range a.catalog.Courses() {
		ids := a.catalog.CourseLessons(c.CourseID)
		done := 0
		for _, id := range ids {
			if p.IsCompleted(id) {
				done++
			}
		}
		s.Courses = append(s.Courses, CourseStats{
			CourseID:  c.CourseID,
			Title:     c.Title,
			Level:     c.Level,
			Completed: done,
			Total:     len(ids),
			Percent:   progress.Percent(done, len(ids)),
		})
	}
	return s
}

// memberDays counts whole days since joining, never negative.
func memberDays(joined, now time.Time) int {
	d := int(now.Sub(joined).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
