package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/logger"
)

// ErrNoCurrentUser is returned when nobody is logged in.
var ErrNoCurrentUser = errors.New("no current user")

// DefaultProfile is the user present at process start.
func DefaultProfile() model.UserProfile {
	return model.UserProfile{
		ID:         "u1",
		Username:   "thien_tdk",
		Email:      "thien@example.com",
		Bio:        "Software Engineer & Designer",
		Phone:      "+84 123 456 789",
		Location:   "TP. Hồ Chí Minh, Việt Nam",
		JoinedDate: "2023-01-15",
	}
}

// ProfileService owns zero or one current user record.
type ProfileService struct {
	seed      model.UserProfile
	publisher Publisher
	logger    *logger.Logger

	mu      sync.RWMutex
	current *model.UserProfile
}

// NewProfileService creates the store with seed as the current user.
func NewProfileService(seed model.UserProfile, pub Publisher, log *logger.Logger) *ProfileService {
	current := seed
	return &ProfileService{
		seed:      seed,
		publisher: pub,
		logger:    log,
		current:   &current,
	}
}

// Current returns a copy of the current user.
func (s *ProfileService) Current() (model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.UserProfile{}, ErrNoCurrentUser
	}
	return *s.current, nil
}

// LoggedIn reports whether a current user exists.
func (s *ProfileService) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Update merges u into the current user.
func (s *ProfileService) Update(u model.ProfileUpdate) (model.UserProfile, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return model.UserProfile{}, ErrNoCurrentUser
	}
	u.Apply(s.current)
	updated := *s.current
	s.mu.Unlock()

	s.publish(model.Event{Type: model.EventProfileUpdated})
	return updated, nil
}

// Logout clears the current user. It reports whether anyone was logged in.
func (s *ProfileService) Logout() bool {
	s.mu.Lock()
	was := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if was {
		s.logger.Info("user logged out")
		s.publish(model.Event{Type: model.EventLoggedOut})
	}
	return was
}

// Login restores the seed user when nobody is logged in. Credentials are
// not checked.
func (s *ProfileService) Login() model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		seed := s.seed
		s.current = &seed
		s.logger.Info("user logged in", zap.String("user_id", seed.ID))
	}
	return *s.current
}

func (s *ProfileService) publish(evt model.Event) {
	if s.publisher != nil {
		s.publisher.Publish(evt)
	}
}
