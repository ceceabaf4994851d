package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/enet-chat/chat-server/internal/i18n"
)

// I18nHandler serves translation tables to the view layer.
type I18nHandler struct {
	provider *i18n.Provider
}

// NewI18nHandler creates a new i18n handler.
func NewI18nHandler(provider *i18n.Provider) *I18nHandler {
	return &I18nHandler{provider: provider}
}

// Table handles GET /api/v1/i18n/{lang}
func (h *I18nHandler) Table(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	table, err := h.provider.Table(lang)
	if err != nil {
		writeError(w, http.StatusNotFound, h.provider.Lookup(lang, "unsupportedLanguage", nil))
		return
	}

	normalized, _ := i18n.Normalize(lang)
	w.Header().Set("Content-Language", normalized)
	writeJSON(w, http.StatusOK, map[string]any{
		"language": normalized,
		"messages": table,
	})
}
