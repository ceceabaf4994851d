package service

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/metrics"
)

// ErrInvalidTheme is returned for themes other than dark and light.
var ErrInvalidTheme = errors.New("invalid theme")

// PreferenceStore is local device storage for preferences.
type PreferenceStore interface {
	Load() (model.Preferences, error)
	Save(model.Preferences) error
}

// LanguageSwitcher is the active-language side of the localization provider.
type LanguageSwitcher interface {
	Language() string
	SetLanguage(lang string) error
}

// PreferenceService keeps theme and language, reading storage once at
// startup and writing on every change.
type PreferenceService struct {
	store     PreferenceStore
	languages LanguageSwitcher
	publisher Publisher
	logger    *logger.Logger

	mu    sync.Mutex
	prefs model.Preferences
}

// NewPreferenceService loads stored preferences. Missing or invalid values
// take the theme from defaults and the language from the provider.
func NewPreferenceService(store PreferenceStore, languages LanguageSwitcher, defaults model.Preferences, pub Publisher, log *logger.Logger) *PreferenceService {
	s := &PreferenceService{
		store:     store,
		languages: languages,
		publisher: pub,
		logger:    log,
	}

	stored, err := store.Load()
	if err != nil {
		log.Warn("failed to load preferences, using defaults", zap.Error(err))
	}

	s.prefs.Theme = stored.Theme
	if !s.prefs.Theme.Valid() {
		s.prefs.Theme = defaults.Theme
	}
	if !s.prefs.Theme.Valid() {
		s.prefs.Theme = model.ThemeDark
	}

	if stored.Language != "" {
		if err := languages.SetLanguage(stored.Language); err != nil {
			log.Warn("ignoring stored language", zap.String("language", stored.Language), zap.Error(err))
		}
	} else if defaults.Language != "" {
		if err := languages.SetLanguage(defaults.Language); err != nil {
			log.Warn("ignoring default language", zap.String("language", defaults.Language), zap.Error(err))
		}
	}
	s.prefs.Language = languages.Language()

	return s
}

// Get returns the current preferences.
func (s *PreferenceService) Get() model.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// ToggleTheme switches between dark and light.
func (s *PreferenceService) ToggleTheme() model.Preferences {
	s.mu.Lock()
	s.prefs.Theme = s.prefs.Theme.Toggle()
	prefs := s.prefs
	s.saveLocked("theme")
	s.mu.Unlock()

	s.publish()
	return prefs
}

// SetTheme stores theme.
func (s *PreferenceService) SetTheme(theme model.Theme) (model.Preferences, error) {
	if !theme.Valid() {
		return model.Preferences{}, fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	s.mu.Lock()
	s.prefs.Theme = theme
	prefs := s.prefs
	s.saveLocked("theme")
	s.mu.Unlock()

	s.publish()
	return prefs, nil
}

// SetLanguage switches the active language and stores it.
func (s *PreferenceService) SetLanguage(lang string) (model.Preferences, error) {
	s.mu.Lock()
	if err := s.languages.SetLanguage(lang); err != nil {
		s.mu.Unlock()
		return model.Preferences{}, err
	}
	s.prefs.Language = s.languages.Language()
	prefs := s.prefs
	s.saveLocked("language")
	s.mu.Unlock()

	s.publish()
	return prefs, nil
}

// Update applies whichever fields req carries. Both are validated before
// anything changes.
func (s *PreferenceService) Update(req model.UpdatePreferencesRequest) (model.Preferences, error) {
	if req.Theme != nil && !req.Theme.Valid() {
		return model.Preferences{}, fmt.Errorf("%w: %q", ErrInvalidTheme, *req.Theme)
	}

	prefs := s.Get()
	var err error
	if req.Language != nil {
		if prefs, err = s.SetLanguage(*req.Language); err != nil {
			return model.Preferences{}, err
		}
	}
	if req.Theme != nil {
		if prefs, err = s.SetTheme(*req.Theme); err != nil {
			return model.Preferences{}, err
		}
	}
	return prefs, nil
}

// saveLocked writes the preferences. Write failures are logged and counted
// but do not undo the change for the running session.
func (s *PreferenceService) saveLocked(key string) {
	if err := s.store.Save(s.prefs); err != nil {
		metrics.PreferenceWrites.WithLabelValues(key, "error").Inc()
		s.logger.Warn("failed to save preferences", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.PreferenceWrites.WithLabelValues(key, "ok").Inc()
}

func (s *PreferenceService) publish() {
	if s.publisher != nil {
		s.publisher.Publish(model.Event{Type: model.EventPreferencesChanged})
	}
}
