package progress

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"tvenglish/internal/catalog"
	"tvenglish/internal/state"
	"tvenglish/internal/telemetry"
)

// TopicSource supplies the topic list used for full recomputes.
type TopicSource interface {
	Topics() []catalog.Topic
}

// Store owns the persisted UserProgress record. Every call reads the record
// from the KV, applies one change, recomputes derived fields and writes it
// back, so reads always observe the latest write. Storage faults are logged
// and absorbed: reads fall back to Default and failed writes are dropped.
type Store struct {
	mu     sync.Mutex
	kv     state.KV
	topics TopicSource
	logger *telemetry.Logger
	now    func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(UserProgress)
	nextSub int
}

func NewStore(kv state.KV, topics TopicSource, logger *telemetry.Logger, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		kv:     kv,
		topics: topics,
		logger: logger,
		now:    now,
		subs:   map[int]func(UserProgress){},
	}
}

// GetUserProgress returns a snapshot of the stored record, or Default when
// nothing usable is stored.
func (s *Store) GetUserProgress(ctx context.Context) UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := s.load(ctx)
	return p
}

// Ensure persists a Default record when none exists yet.
func (s *Store) Ensure(ctx context.Context) UserProgress {
	s.mu.Lock()
	p, found := s.load(ctx)
	saved := false
	if !found {
		saved = s.save(ctx, p)
	}
	s.mu.Unlock()
	if saved {
		s.publish(p)
	}
	return p
}

func (s *Store) IsLessonCompleted(ctx context.Context, lessonID string) bool {
	return s.GetUserProgress(ctx).IsCompleted(lessonID)
}

// MarkLessonComplete adds lessonID to the completed set and recomputes the
// topic's progress from topicLessonIDs. Repeating the call is harmless; the
// streak only moves when the lesson is newly completed.
func (s *Store) MarkLessonComplete(ctx context.Context, lessonID, topicID string, topicLessonIDs []string) TopicProgress {
	var tp TopicProgress
	s.mutate(ctx, func(p *UserProgress) bool {
		newly := lessonID != "" && !p.IsCompleted(lessonID)
		if newly {
			p.CompletedLessons = append(p.CompletedLessons, lessonID)
			sort.Strings(p.CompletedLessons)
			touchStreak(p, s.now())
		}
		tp = ComputeTopicProgress(p.CompletedLessons, topicLessonIDs)
		if topicID != "" {
			p.TopicProgress[topicID] = tp
		}
		s.logger.Info("progress.lesson_completed", map[string]any{
			"lesson":     lessonID,
			"topic":      topicID,
			"new":        newly,
			"completed":  tp.Completed,
			"total":      tp.Total,
			"percentage": tp.Percentage,
		})
		return true
	})
	return tp
}

// RecordQuizScore stores score clamped to 0..100, replacing any earlier
// score for the lesson. It returns the stored value.
func (s *Store) RecordQuizScore(ctx context.Context, lessonID string, score int) int {
	score = clampScore(score)
	s.mutate(ctx, func(p *UserProgress) bool {
		if lessonID == "" {
			return false
		}
		p.QuizScores[lessonID] = score
		touchStreak(p, s.now())
		s.logger.Info("progress.quiz_recorded", map[string]any{"lesson": lessonID, "score": score})
		return true
	})
	return score
}

// AddTimeSpent accumulates minutes for a lesson. Non-positive input is
// ignored and reported as false.
func (s *Store) AddTimeSpent(ctx context.Context, lessonID string, minutes int) bool {
	if lessonID == "" || minutes <= 0 {
		s.logger.Debug("progress.time_ignored", map[string]any{"lesson": lessonID, "minutes": minutes})
		return false
	}
	s.mutate(ctx, func(p *UserProgress) bool {
		p.TimeSpent[lessonID] += minutes
		touchStreak(p, s.now())
		return true
	})
	return true
}

// UpdateAllTopicProgress rebuilds the topic cache for every catalog topic
// and drops entries for topics the catalog no longer has.
func (s *Store) UpdateAllTopicProgress(ctx context.Context) {
	if s.topics == nil {
		return
	}
	topics := s.topics.Topics()
	s.mutate(ctx, func(p *UserProgress) bool {
		fresh := make(map[string]TopicProgress, len(topics))
		for _, t := range topics {
			fresh[t.TopicID] = ComputeTopicProgress(p.CompletedLessons, t.Lessons)
		}
		dropped := 0
		for id := range p.TopicProgress {
			if _, ok := fresh[id]; !ok {
				dropped++
			}
		}
		p.TopicProgress = fresh
		s.logger.Info("progress.topics_recomputed", map[string]any{"topics": len(fresh), "dropped": dropped})
		return true
	})
}

// Clear removes the stored record.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	err := s.kv.Delete(ctx, state.KeyUserProgress)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("progress.clear_failed", map[string]any{"error": err.Error()})
		return
	}
	s.publish(Default())
}

// Subscribe registers fn to run after every successful write. The returned
// func removes it.
func (s *Store) Subscribe(fn func(UserProgress)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) mutate(ctx context.Context, apply func(*UserProgress) bool) {
	s.mu.Lock()
	p, _ := s.load(ctx)
	saved := false
	if apply(&p) {
		saved = s.save(ctx, p)
	}
	s.mu.Unlock()
	if saved {
		s.publish(p)
	}
}

func (s *Store) load(ctx context.Context) (UserProgress, bool) {
	raw, found, err := s.kv.Get(ctx, state.KeyUserProgress)
	if err != nil {
		s.logger.Warn("progress.read_failed", map[string]any{"error": err.Error()})
		return Default(), false
	}
	if !found {
		return Default(), false
	}
	p := Default()
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn("progress.corrupt_record", map[string]any{"error": err.Error(), "bytes": len(raw)})
		return Default(), false
	}
	normalize(&p)
	return p, true
}

func (s *Store) save(ctx context.Context, p UserProgress) bool {
	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("progress.encode_failed", map[string]any{"error": err.Error()})
		return false
	}
	if err := s.kv.Set(ctx, state.KeyUserProgress, raw); err != nil {
		s.logger.Error("progress.write_failed", map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func (s *Store) publish(p UserProgress) {
	s.subMu.Lock()
	fns := make([]func(UserProgress), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(p.Clone())
	}
}
