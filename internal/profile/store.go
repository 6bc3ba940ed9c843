package profile

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"tvenglish/internal/state"
	"tvenglish/internal/telemetry"
)

// Store keeps the single local profile under state.KeyUserProfile.
type Store struct {
	mu       sync.Mutex
	kv       state.KV
	logger   *telemetry.Logger
	now      func() time.Time
	validate *validator.Validate
}

func NewStore(kv state.KV, logger *telemetry.Logger, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, logger: logger, now: now, validate: newValidator()}
}

// GetUserProfile returns the stored profile. Missing or unreadable records
// report false.
func (s *Store) GetUserProfile(ctx context.Context) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// CreateUserProfile stores a new profile unless one already exists, in which
// case the existing profile is returned untouched.
func (s *Store) CreateUserProfile(ctx context.Context, username, email string, o Overrides) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.load(ctx); ok {
		return existing, nil
	}
	p := Profile{
		Username:    strings.TrimSpace(username),
		Email:       strings.TrimSpace(email),
		Birthdate:   o.Birthdate,
		Sex:         o.Sex,
		PhoneNumber: o.PhoneNumber,
		JoinDate:    s.now().UTC().Format(time.RFC3339),
		Role:        RoleUser,
	}
	if o.Role != "" {
		p.Role = o.Role
	}
	if err := check(s.validate, p, true); err != nil {
		s.logger.Warn("profile.create_rejected", map[string]any{"error": err.Error()})
		return Profile{}, err
	}
	s.save(ctx, p)
	s.logger.Info("profile.created", map[string]any{"username": p.Username, "role": string(p.Role)})
	return p, nil
}

// UpdateUserProfile merges u into the stored profile and validates the
// result. A rejected update leaves storage untouched.
func (s *Store) UpdateUserProfile(ctx context.Context, u ProfileUpdate) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.load(ctx)
	if !ok {
		return Profile{}, ErrNotFound
	}
	next := u.apply(current)
	if err := check(s.validate, next, false); err != nil {
		s.logger.Warn("profile.update_rejected", map[string]any{"error": err.Error()})
		return current, err
	}
	s.save(ctx, next)
	s.logger.Info("profile.updated", map[string]any{"username": next.Username})
	return next, nil
}

func (s *Store) ClearUserProfile(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, state.KeyUserProfile); err != nil {
		s.logger.Error("profile.clear_failed", map[string]any{"error": err.Error()})
	}
}

func (s *Store) load(ctx context.Context) (Profile, bool) {
	raw, found, err := s.kv.Get(ctx, state.KeyUserProfile)
	if err != nil {
		s.logger.Warn("profile.read_failed", map[string]any{"error": err.Error()})
		return Profile{}, false
	}
	if !found {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn("profile.corrupt_record", map[string]any{"error": err.Error()})
		return Profile{}, false
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	return p, true
}

func (s *Store) save(ctx context.Context, p Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("profile.encode_failed", map[string]any{"error": err.Error()})
		return
	}
	if err := s.kv.Set(ctx, state.KeyUserProfile, raw); err != nil {
		s.logger.Error("profile.write_failed", map[string]any{"error": err.Error()})
	}
}
