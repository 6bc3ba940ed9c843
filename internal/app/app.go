package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tvenglish/internal/catalog"
	"tvenglish/internal/profile"
	"tvenglish/internal/progress"
	"tvenglish/internal/quiz"
	"tvenglish/internal/state"
	"tvenglish/internal/telemetry"

	"github.com/google/uuid"
)

type App struct {
	cfg Config

	logger   *telemetry.Logger
	kv       state.KV
	catalog  *catalog.Catalog
	progress *progress.Store
	profiles *profile.Store
	grader   quiz.Grader
	notify   Notifier
	now      func() time.Time

	sessionID string
}

func New(ctx context.Context, cfg Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger, err := telemetry.NewLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	sessionID := uuid.NewString()
	logger = logger.With(map[string]any{"session": sessionID})

	kv, err := openKV(ctx, cfg, opts.KV)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	loader := catalog.NewLoader()
	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = loader.Load(ctx, cfg.CatalogPath)
	} else {
		cat, err = loader.LoadBuiltin(ctx)
	}
	if err != nil {
		_ = kv.Close()
		_ = logger.Close()
		return nil, err
	}

	grader := opts.Grader
	if grader == nil {
		grader = quiz.NewGrader()
	}
	notify := opts.Notifier
	if notify == nil {
		notify = nopNotifier{}
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		kv:        kv,
		catalog:   cat,
		progress:  progress.NewStore(kv, cat, logger, now),
		profiles:  profile.NewStore(kv, logger, now),
		grader:    grader,
		notify:    notify,
		now:       now,
		sessionID: sessionID,
	}
	a.logger.Info("app.start", map[string]any{
		"catalog":   cat.ID(),
		"version":   cat.Version(),
		"ephemeral": cfg.Ephemeral,
		"lessons":   len(cat.Lessons()),
	})
	return a, nil
}

func openKV(ctx context.Context, cfg Config, injected state.KV) (state.KV, error) {
	if injected != nil {
		return injected, nil
	}
	if cfg.Ephemeral {
		return state.NewMemory(), nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func (a *App) Close() {
	a.logger.Info("app.stop", nil)
	_ = a.kv.Close()
	_ = a.logger.Close()
}

func (a *App) Config() Config            { return a.cfg }
func (a *App) Catalog() *catalog.Catalog { return a.catalog }
func (a *App) Progress() *progress.Store { return a.progress }
func (a *App) Profiles() *profile.Store  { return a.profiles }
func (a *App) SessionID() string         { return a.sessionID }
func (a *App) Logger() *telemetry.Logger { return a.logger }

// SignUp creates the local profile and an empty progress record. Any
// credentials are accepted.
func (a *App) SignUp(ctx context.Context, username, email string) (profile.Profile, error) {
	return a.signIn(ctx, "auth.signup", username, email)
}

// SignIn behaves like SignUp; an existing profile is kept as is.
func (a *App) SignIn(ctx context.Context, username, email string) (profile.Profile, error) {
	return a.signIn(ctx, "auth.signin", username, email)
}

func (a *App) signIn(ctx context.Context, event, username, email string) (profile.Profile, error) {
	p, err := a.profiles.CreateUserProfile(ctx, username, email, profile.Overrides{})
	if err != nil {
		a.notify.Error(err.Error())
		return profile.Profile{}, err
	}
	a.progress.Ensure(ctx)
	a.logger.Info(event, map[string]any{"username": p.Username})
	a.notify.Success(fmt.Sprintf("Welcome, %s!", p.Username))
	return p, nil
}

// SignOut forgets the profile and all progress.
func (a *App) SignOut(ctx context.Context) {
	a.progress.Clear(ctx)
	a.profiles.ClearUserProfile(ctx)
	a.logger.Info("auth.signout", nil)
	a.notify.Success("Signed out.")
}

func (a *App) CurrentUser(ctx context.Context) (profile.Profile, bool) {
	return a.profiles.GetUserProfile(ctx)
}

// UpdateProfile applies a partial edit and reports the outcome.
func (a *App) UpdateProfile(ctx context.Context, u profile.ProfileUpdate) (profile.Profile, error) {
	p, err := a.profiles.UpdateUserProfile(ctx, u)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		a.notify.Error("Sign in before editing your profile.")
		return p, ErrSignedOut
	case err != nil:
		a.notify.Error(err.Error())
		return p, err
	}
	a.notify.Success("Profile updated.")
	return p, nil
}

// CompleteLesson marks a catalog lesson done. Unknown ids and repeats are
// reported through the notifier and leave progress untouched.
func (a *App) CompleteLesson(ctx context.Context, lessonID string) (CompletionResult, error) {
	lessonID = strings.TrimSpace(lessonID)
	ref, ok := a.catalog.FindTopicByLessonID(lessonID)
	if !ok {
		a.notify.Error(fmt.Sprintf("Lesson %q not found.", lessonID))
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}
	res := CompletionResult{LessonID: lessonID, TopicID: ref.TopicID}
	res.NextLessonID, _ = a.catalog.NextLesson(lessonID)
	if a.progress.IsLessonCompleted(ctx, lessonID) {
		res.AlreadyDone = true
		res.Topic = a.progress.GetUserProgress(ctx).TopicProgress[ref.TopicID]
		a.notify.Success("Lesson already completed.")
		return res, nil
	}
	res.Topic = a.progress.MarkLessonComplete(ctx, lessonID, ref.TopicID, ref.TopicLessons)
	a.notify.Success(fmt.Sprintf("Lesson completed! %s is %d%% done.", ref.TopicName, res.Topic.Percentage))
	return res, nil
}

// SubmitQuiz grades an answer to the lesson's practice question and records
// the score.
func (a *App) SubmitQuiz(ctx context.Context, lessonID string, option int) (quiz.Result, error) {
	lesson, ok := a.catalog.Lesson(lessonID)
	if !ok {
		a.notify.Error(fmt.Sprintf("Lesson %q not found.", lessonID))
		return quiz.Result{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}
	res, err := a.grader.Grade(ctx, quiz.Request{LessonID: lessonID, Exercise: lesson.Practice, Selected: option})
	if err != nil {
		a.logger.Warn("quiz.grade_failed", map[string]any{"lesson": lessonID, "error": err.Error()})
		a.notify.Error(err.Error())
		return quiz.Result{}, err
	}
	a.progress.RecordQuizScore(ctx, lessonID, res.Score)
	if res.Correct {
		a.notify.Success("Correct!")
	} else {
		a.notify.Error(fmt.Sprintf("Not quite. The answer is %q.", res.CorrectText))
	}
	return res, nil
}

// RecordStudyTime adds minutes to a catalog lesson.
func (a *App) RecordStudyTime(ctx context.Context, lessonID string, minutes int) error {
	if _, ok := a.catalog.Lesson(lessonID); !ok {
		a.notify.Error(fmt.Sprintf("Lesson %q not found.", lessonID))
		return fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}
	if !a.progress.AddTimeSpent(ctx, lessonID, minutes) {
		return fmt.Errorf("minutes must be >0, got %d", minutes)
	}
	return nil
}

// RepairProgress recomputes every topic's cached progress from the
// completed set.
func (a *App) RepairProgress(ctx context.Context) progress.UserProgress {
	a.progress.UpdateAllTopicProgress(ctx)
	a.notify.Success("Progress recalculated.")
	return a.progress.GetUserProgress(ctx)
}

// Topics lists a course's topics with cached progress.
func (a *App) Topics(ctx context.Context, courseID string) []TopicRow {
	course := a.catalog.CourseForView(courseID)
	p := a.progress.GetUserProgress(ctx)
	topics := a.catalog.TopicsByCourse(course.CourseID)
	out := make([]TopicRow, 0, len(topics))
	for _, t := range topics {
		tp, ok := p.TopicProgress[t.TopicID]
		if !ok {
			tp = progress.ComputeTopicProgress(p.CompletedLessons, t.Lessons)
		}
		out = append(out, TopicRow{Topic: t, Progress: tp})
	}
	return out
}

func (a *App) LessonView(ctx context.Context, lessonID string) (LessonView, bool) {
	placement, ok := a.catalog.Resolve(lessonID)
	if !ok {
		return LessonView{}, false
	}
	p := a.progress.GetUserProgress(ctx)
	v := LessonView{
		Placement: placement,
		Completed: p.IsCompleted(lessonID),
		Minutes:   p.TimeSpent[lessonID],
		TopicSize: len(placement.Topic.Lessons),
	}
	v.QuizScore, v.HasScore = p.QuizScores[lessonID]
	v.PreviousID, _ = a.catalog.PreviousLesson(lessonID)
	v.NextID, _ = a.catalog.NextLesson(lessonID)
	for i, id := range placement.Topic.Lessons {
		if id == lessonID {
			v.Position = i + 1
			break
		}
	}
	return v, true
}
