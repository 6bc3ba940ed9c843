package progress

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tvenglish/internal/catalog"
	"tvenglish/internal/state"
	"tvenglish/internal/telemetry"
)

var greetingsLessons = []string{"greetings-basic", "introductions-self", "greetings-farewell"}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

type staticTopics []catalog.Topic

func (s staticTopics) Topics() []catalog.Topic { return s }

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (failingKV) Set(context.Context, string, []byte) error { return errors.New("disk gone") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("disk gone") }
func (failingKV) Close() error                              { return nil }

func newTestStore(t *testing.T) (*Store, *state.MemoryKV, *fakeClock) {
	t.Helper()
	kv := state.NewMemory()
	clock := &fakeClock{t: time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)}
	topics := staticTopics{
		{TopicID: "greetings", Lessons: greetingsLessons},
		{TopicID: "numbers", Lessons: []string{"numbers-basic", "numbers-time"}},
	}
	return NewStore(kv, topics, telemetry.Nop(), clock.Now), kv, clock
}

func TestMarkLessonCompleteGreetingsScenario(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	fresh := s.GetUserProgress(ctx)
	if len(fresh.CompletedLessons) != 0 || fresh.StudyStreak != 0 {
		t.Fatalf("expected empty progress, got %+v", fresh)
	}

	tp := s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	want := TopicProgress{Completed: 1, Total: 3, Percentage: 33}
	if tp != want {
		t.Fatalf("expected %+v, got %+v", want, tp)
	}
	got := s.GetUserProgress(ctx)
	if got.TopicProgress["greetings"] != want {
		t.Fatalf("expected stored %+v, got %+v", want, got.TopicProgress["greetings"])
	}
	if !s.IsLessonCompleted(ctx, "greetings-basic") {
		t.Fatalf("expected greetings-basic completed")
	}
	if s.IsLessonCompleted(ctx, "introductions-self") {
		t.Fatalf("did not expect introductions-self completed")
	}
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	s, _, clock := newTestStore(t)
	ctx := context.Background()

	first := s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	clock.advance(1)
	second := s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	if first != second {
		t.Fatalf("expected same topic progress, got %+v then %+v", first, second)
	}
	p := s.GetUserProgress(ctx)
	if len(p.CompletedLessons) != 1 {
		t.Fatalf("expected 1 completed lesson, got %v", p.CompletedLessons)
	}
	if p.StudyStreak != 1 {
		t.Fatalf("repeat completion must not move streak, got %d", p.StudyStreak)
	}
}

func TestTopicPercentageMatchesCompletedIntersection(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	steps := []struct {
		lesson string
		want   int
	}{
		{"greetings-basic", 33},
		{"numbers-basic", 33},
		{"greetings-farewell", 67},
		{"introductions-self", 100},
	}
	for _, step := range steps {
		tp := s.MarkLessonComplete(ctx, step.lesson, "greetings", greetingsLessons)
		if tp.Percentage != step.want {
			t.Fatalf("after %s expected %d%%, got %d%%", step.lesson, step.want, tp.Percentage)
		}
		if tp.Percentage < 0 || tp.Percentage > 100 {
			t.Fatalf("percentage out of range: %d", tp.Percentage)
		}
	}
	if got := s.GetUserProgress(ctx).CompletedTopics(); got != 1 {
		t.Fatalf("expected 1 completed topic, got %d", got)
	}
}

func TestAddTimeSpentAccumulates(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if !s.AddTimeSpent(ctx, "greetings-basic", 5) {
		t.Fatalf("expected 5 minutes accepted")
	}
	if !s.AddTimeSpent(ctx, "greetings-basic", 3) {
		t.Fatalf("expected 3 minutes accepted")
	}
	if s.AddTimeSpent(ctx, "greetings-basic", 0) || s.AddTimeSpent(ctx, "greetings-basic", -4) {
		t.Fatalf("expected non-positive minutes to be ignored")
	}
	p := s.GetUserProgress(ctx)
	if p.TimeSpent["greetings-basic"] != 8 {
		t.Fatalf("expected 8 minutes, got %d", p.TimeSpent["greetings-basic"])
	}
	if p.TotalMinutes() != 8 {
		t.Fatalf("expected total 8, got %d", p.TotalMinutes())
	}
}

func TestRecordQuizScoreClampsAndOverwrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.RecordQuizScore(ctx, "greetings-basic", 140); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
	if got := s.RecordQuizScore(ctx, "numbers-basic", -5); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	s.RecordQuizScore(ctx, "greetings-basic", 40)
	p := s.GetUserProgress(ctx)
	if p.QuizScores["greetings-basic"] != 40 {
		t.Fatalf("expected last write to win, got %d", p.QuizScores["greetings-basic"])
	}
	if p.AverageQuizScore() != 20 {
		t.Fatalf("expected average 20, got %d", p.AverageQuizScore())
	}
}

func TestUpdateAllTopicProgressDropsStaleTopics(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	seed := Default()
	seed.CompletedLessons = []string{"numbers-basic", "greetings-basic", "numbers-basic"}
	seed.TopicProgress["retired-topic"] = TopicProgress{Completed: 4, Total: 4, Percentage: 100}
	seed.TopicProgress["numbers"] = TopicProgress{Completed: 0, Total: 2, Percentage: 0}
	raw, _ := json.Marshal(seed)
	if err := kv.Set(ctx, state.KeyUserProgress, raw); err != nil {
		t.Fatal(err)
	}

	s.UpdateAllTopicProgress(ctx)
	p := s.GetUserProgress(ctx)
	if _, ok := p.TopicProgress["retired-topic"]; ok {
		t.Fatalf("expected stale topic dropped, got %+v", p.TopicProgress)
	}
	if got := p.TopicProgress["numbers"]; got != (TopicProgress{Completed: 1, Total: 2, Percentage: 50}) {
		t.Fatalf("unexpected numbers progress: %+v", got)
	}
	if got := p.TopicProgress["greetings"]; got.Percentage != 33 {
		t.Fatalf("unexpected greetings progress: %+v", got)
	}
	if len(p.CompletedLessons) != 2 {
		t.Fatalf("expected duplicates removed, got %v", p.CompletedLessons)
	}
}

func TestCorruptRecordFallsBackToDefault(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, state.KeyUserProgress, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	p := s.GetUserProgress(ctx)
	if len(p.CompletedLessons) != 0 || p.TimeSpent == nil || p.QuizScores == nil {
		t.Fatalf("expected default progress, got %+v", p)
	}
	tp := s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	if tp.Completed != 1 {
		t.Fatalf("expected write over corrupt record, got %+v", tp)
	}
}

func TestStorageFaultsAreAbsorbed(t *testing.T) {
	s := NewStore(failingKV{}, nil, telemetry.Nop(), nil)
	ctx := context.Background()

	tp := s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	if tp.Completed != 1 {
		t.Fatalf("expected computed progress even when save fails, got %+v", tp)
	}
	if s.IsLessonCompleted(ctx, "greetings-basic") {
		t.Fatalf("expected nothing persisted")
	}
	s.UpdateAllTopicProgress(ctx)
	s.Clear(ctx)
}

func TestEnsureAndClear(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	s.Ensure(ctx)
	if _, found, _ := kv.Get(ctx, state.KeyUserProgress); !found {
		t.Fatalf("expected Ensure to persist a record")
	}
	s.AddTimeSpent(ctx, "greetings-basic", 10)
	if got := s.Ensure(ctx).TimeSpent["greetings-basic"]; got != 10 {
		t.Fatalf("Ensure must not overwrite existing record, got %d", got)
	}
	s.Clear(ctx)
	if _, found, _ := kv.Get(ctx, state.KeyUserProgress); found {
		t.Fatalf("expected record removed")
	}
}

func TestSubscribeReceivesWrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	var seen []UserProgress
	cancel := s.Subscribe(func(p UserProgress) { seen = append(seen, p) })
	s.MarkLessonComplete(ctx, "greetings-basic", "greetings", greetingsLessons)
	s.AddTimeSpent(ctx, "greetings-basic", 0)
	if len(seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(seen))
	}
	if !seen[0].IsCompleted("greetings-basic") {
		t.Fatalf("expected snapshot with completed lesson")
	}
	seen[0].CompletedLessons[0] = "mutated"
	if !s.IsLessonCompleted(ctx, "greetings-basic") {
		t.Fatalf("subscriber snapshot must not alias store state")
	}

	cancel()
	s.RecordQuizScore(ctx, "greetings-basic", 90)
	if len(seen) != 1 {
		t.Fatalf("expected no notification after cancel, got %d", len(seen))
	}
}

func TestGetUserProgressReturnsCopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	s.RecordQuizScore(ctx, "greetings-basic", 80)

	p := s.GetUserProgress(ctx)
	p.QuizScores["greetings-basic"] = 1
	if got := s.GetUserProgress(ctx).QuizScores["greetings-basic"]; got != 80 {
		t.Fatalf("expected stored score untouched, got %d", got)
	}
}
