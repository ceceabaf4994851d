package handler

import (
	"errors"
	"net/http"

	"github.com/enet-chat/chat-server/internal/i18n"
	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
)

// PreferencesHandler handles theme and language.
type PreferencesHandler struct {
	preferences *service.PreferenceService
	localizer   Localizer
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(preferences *service.PreferenceService, localizer Localizer) *PreferencesHandler {
	return &PreferencesHandler{
		preferences: preferences,
		localizer:   localizer,
	}
}

// Get handles GET /api/v1/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &model.PreferencesResponse{Preferences: h.preferences.Get()})
}

// Update handles PUT /api/v1/preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePreferencesRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	prefs, err := h.preferences.Update(req)
	switch {
	case errors.Is(err, service.ErrInvalidTheme):
		writeValidation(w, r, h.localizer, middleware.FieldErrors{"theme": "unsupportedTheme"})
		return
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		writeValidation(w, r, h.localizer, middleware.FieldErrors{"language": "unsupportedLanguage"})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// A language change is announced in the new language.
	lang := middleware.GetLanguage(r.Context())
	notice := "themeChanged"
	if req.Language != nil {
		lang = prefs.Language
		notice = "languageChanged"
	}

	writeJSON(w, http.StatusOK, &model.PreferencesResponse{
		Preferences: prefs,
		Notice:      h.localizer.Lookup(lang, notice, nil),
	})
}

// ToggleTheme handles POST /api/v1/preferences/theme/toggle
func (h *PreferencesHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	prefs := h.preferences.ToggleTheme()
	writeJSON(w, http.StatusOK, &model.PreferencesResponse{
		Preferences: prefs,
		Notice:      localize(r, h.localizer, "themeChanged", nil),
	})
}
