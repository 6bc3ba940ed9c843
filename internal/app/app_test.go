package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tvenglish/internal/profile"
	"tvenglish/internal/quiz"
	"tvenglish/internal/state"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (r *recordingNotifier) Success(msg string) { r.successes = append(r.successes, msg) }
func (r *recordingNotifier) Error(msg string)   { r.errors = append(r.errors, msg) }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestApp(t *testing.T) (*App, *recordingNotifier, *clock) {
	t.Helper()
	n := &recordingNotifier{}
	c := &clock{t: time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.Ephemeral = true
	a, err := New(context.Background(), cfg, Options{Notifier: n, Now: c.Now})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a, n, c
}

func TestSignInCreatesProfileAndProgress(t *testing.T) {
	a, n, _ := newTestApp(t)
	ctx := context.Background()

	p, err := a.SignIn(ctx, "Jo", "jo@example.com")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if p.Role != profile.RoleUser {
		t.Fatalf("expected user role, got %q", p.Role)
	}
	if _, found, _ := a.kv.Get(ctx, state.KeyUserProgress); !found {
		t.Fatalf("expected progress record after sign in")
	}
	if len(n.successes) != 1 || !strings.Contains(n.successes[0], "Jo") {
		t.Fatalf("expected welcome toast, got %v", n.successes)
	}

	again, err := a.SignUp(ctx, "Other", "")
	if err != nil {
		t.Fatal(err)
	}
	if again.Username != "Jo" {
		t.Fatalf("expected existing profile kept, got %q", again.Username)
	}

	a.SignOut(ctx)
	if _, ok := a.CurrentUser(ctx); ok {
		t.Fatalf("expected profile cleared on sign out")
	}
	if _, found, _ := a.kv.Get(ctx, state.KeyUserProgress); found {
		t.Fatalf("expected progress cleared on sign out")
	}
}

func TestSignInRejectsBlankUsername(t *testing.T) {
	a, n, _ := newTestApp(t)
	if _, err := a.SignIn(context.Background(), " ", ""); !errors.Is(err, profile.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(n.errors) != 1 {
		t.Fatalf("expected error toast, got %v", n.errors)
	}
}

func TestCompleteLessonFlow(t *testing.T) {
	a, n, _ := newTestApp(t)
	ctx := context.Background()

	res, err := a.CompleteLesson(ctx, "greetings-basic")
	if err != nil {
		t.Fatal(err)
	}
	if res.TopicID != "greetings" || res.Topic.Percentage != 33 || res.NextLessonID != "introductions-self" {
		t.Fatalf("unexpected completion result: %+v", res)
	}

	again, err := a.CompleteLesson(ctx, "greetings-basic")
	if err != nil {
		t.Fatal(err)
	}
	if !again.AlreadyDone || again.Topic.Percentage != 33 {
		t.Fatalf("expected repeat to be a no-op, got %+v", again)
	}

	if _, err := a.CompleteLesson(ctx, "no-such-lesson"); !errors.Is(err, ErrUnknownLesson) {
		t.Fatalf("expected ErrUnknownLesson, got %v", err)
	}
	if len(n.errors) != 1 {
		t.Fatalf("expected one error toast, got %v", n.errors)
	}
	if got := len(a.Progress().GetUserProgress(ctx).CompletedLessons); got != 1 {
		t.Fatalf("expected 1 completed lesson, got %d", got)
	}
}

func TestSubmitQuizRecordsScore(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	res, err := a.SubmitQuiz(ctx, "greetings-basic", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || res.Score != 100 {
		t.Fatalf("expected correct answer, got %#v", res)
	}
	if _, err := a.SubmitQuiz(ctx, "greetings-basic", 0); err != nil {
		t.Fatal(err)
	}
	if got := a.Progress().GetUserProgress(ctx).QuizScores["greetings-basic"]; got != 0 {
		t.Fatalf("expected retake to overwrite score, got %d", got)
	}

	if _, err := a.SubmitQuiz(ctx, "time-telling", 0); !errors.Is(err, quiz.ErrNoExercise) {
		t.Fatalf("expected ErrNoExercise, got %v", err)
	}
	if _, err := a.SubmitQuiz(ctx, "greetings-basic", 7); err == nil {
		t.Fatalf("expected out of range option to fail")
	}
}

func TestRecordStudyTime(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	if err := a.RecordStudyTime(ctx, "numbers-basic", 5); err != nil {
		t.Fatal(err)
	}
	if err := a.RecordStudyTime(ctx, "numbers-basic", 3); err != nil {
		t.Fatal(err)
	}
	if err := a.RecordStudyTime(ctx, "numbers-basic", 0); err == nil {
		t.Fatalf("expected zero minutes rejected")
	}
	if err := a.RecordStudyTime(ctx, "missing", 5); !errors.Is(err, ErrUnknownLesson) {
		t.Fatalf("expected ErrUnknownLesson, got %v", err)
	}
	if got := a.Progress().GetUserProgress(ctx).TimeSpent["numbers-basic"]; got != 8 {
		t.Fatalf("expected 8 minutes, got %d", got)
	}
}

func TestStatsRollup(t *testing.T) {
	a, _, c := newTestApp(t)
	ctx := context.Background()

	if _, err := a.SignUp(ctx, "Jo", "jo@example.com"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"greetings-basic", "introductions-self", "greetings-farewell", "weather-talk"} {
		if _, err := a.CompleteLesson(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = a.SubmitQuiz(ctx, "greetings-basic", 1)
	_, _ = a.SubmitQuiz(ctx, "introductions-self", 3)
	_ = a.RecordStudyTime(ctx, "weather-talk", 12)
	c.t = c.t.AddDate(0, 0, 10)

	s := a.Stats(ctx)
	if s.TotalLessons != 36 || s.CompletedLessons != 4 {
		t.Fatalf("unexpected lesson counts: %+v", s)
	}
	if s.CompletionPct != 11 {
		t.Fatalf("expected 11%% completion, got %d", s.CompletionPct)
	}
	if s.AverageScore != 50 || s.QuizzesTaken != 2 {
		t.Fatalf("unexpected quiz stats: avg=%d taken=%d", s.AverageScore, s.QuizzesTaken)
	}
	if s.CompletedTopics != 1 || s.TotalMinutes != 12 || s.StudyStreak != 1 {
		t.Fatalf("unexpected topic/minute/streak stats: %+v", s)
	}
	if s.Username != "Jo" || s.MemberDays != 10 {
		t.Fatalf("unexpected member stats: %q %d", s.Username, s.MemberDays)
	}
	if len(s.Courses) != 4 {
		t.Fatalf("expected 4 course rollups, got %d", len(s.Courses))
	}
	if a1 := s.Courses[0]; a1.CourseID != "course-a1" || a1.Completed != 3 || a1.Total != 9 || a1.Percent != 33 {
		t.Fatalf("unexpected A1 rollup: %+v", a1)
	}
	if a2 := s.Courses[1]; a2.Completed != 1 || a2.Percent != 11 {
		t.Fatalf("unexpected A2 rollup: %+v", a2)
	}
}

func TestLessonViewAndTopics(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	if _, ok := a.LessonView(ctx, "nope"); ok {
		t.Fatalf("expected unknown lesson")
	}
	_, _ = a.CompleteLesson(ctx, "numbers-prices")
	v, ok := a.LessonView(ctx, "numbers-prices")
	if !ok {
		t.Fatalf("expected lesson view")
	}
	if !v.Completed || v.PreviousID != "numbers-basic" || v.NextID != "numbers-dates" || v.Position != 2 || v.TopicSize != 3 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Placement.Course.CourseID != "course-a1" {
		t.Fatalf("unexpected course %q", v.Placement.Course.CourseID)
	}

	rows := a.Topics(ctx, "numbers-prices")
	if len(rows) != 3 || rows[1].Topic.TopicID != "numbers" || rows[1].Progress.Completed != 1 {
		t.Fatalf("unexpected topic rows: %+v", rows)
	}
}

func TestRepairProgressRebuildsCache(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	raw := []byte(`{"completedLessons":["family-members","family-activities"],"topicProgress":{"gone":{"completed":1,"total":1,"percentage":100}}}`)
	if err := a.kv.Set(ctx, state.KeyUserProgress, raw); err != nil {
		t.Fatal(err)
	}
	p := a.RepairProgress(ctx)
	if _, ok := p.TopicProgress["gone"]; ok {
		t.Fatalf("expected stale topic dropped")
	}
	if got := p.TopicProgress["family"].Percentage; got != 67 {
		t.Fatalf("expected family 67%%, got %d", got)
	}
	if len(p.TopicProgress) != 12 {
		t.Fatalf("expected 12 topics cached, got %d", len(p.TopicProgress))
	}
}

func TestUpdateProfileRequiresSignIn(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()
	name := "Jo"
	if _, err := a.UpdateProfile(ctx, profile.ProfileUpdate{Username: &name}); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
}

func TestNewPersistsToSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.LogPath = filepath.Join(dir, "logs", "app.log")

	ctx := context.Background()
	a, err := New(ctx, cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.CompleteLesson(ctx, "travel-hotel"); err != nil {
		t.Fatal(err)
	}
	a.Close()

	b, err := New(ctx, cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if !b.Progress().IsLessonCompleted(ctx, "travel-hotel") {
		t.Fatalf("expected completion to survive reopen")
	}
	if a.SessionID() == b.SessionID() {
		t.Fatalf("expected a fresh session id per app")
	}
	logs, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logs), "progress.lesson_completed") {
		t.Fatalf("expected lesson event in log, got %q", logs)
	}
}

func TestConfigValidateAndEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "LOUD"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid log level")
	}

	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("TVENGLISH_LOG_LEVEL=debug\nTVENGLISH_STYLE=night_study\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TVENGLISH_DATA_DIR", dir)
	t.Setenv("TVENGLISH_EPHEMERAL", "true")
	t.Setenv("TVENGLISH_LOG_LEVEL", "warn")
	t.Cleanup(func() { _ = os.Unsetenv("TVENGLISH_STYLE") })

	cfg = DefaultConfig()
	if err := LoadEnv(&cfg, dotenv); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != dir || !cfg.Ephemeral {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected process env to win over .env, got %q", cfg.LogLevel)
	}
	if cfg.UI.StyleVariant != "night_study" {
		t.Fatalf("expected style from .env, got %q", cfg.UI.StyleVariant)
	}
	if err := LoadEnv(&cfg, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}
