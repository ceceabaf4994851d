package handler

import (
	"encoding/json"
	"net/http"

	"github.com/enet-chat/chat-server/internal/middleware"
)

// Localizer renders a localized string.
type Localizer interface {
	Lookup(lang, key string, data map[string]any) string
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeValidation writes field errors as localized messages with 422.
func writeValidation(w http.ResponseWriter, r *http.Request, l Localizer, errs middleware.FieldErrors) {
	out := make(map[string]string, len(errs))
	for field, key := range errs {
		out[field] = localize(r, l, key, nil)
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out})
}

// localize looks key up in the request language.
func localize(r *http.Request, l Localizer, key string, data map[string]any) string {
	return l.Lookup(middleware.GetLanguage(r.Context()), key, data)
}

// decodeJSON decodes the request body into v, writing a localized 400 on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, l Localizer, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, localize(r, l, "invalidRequest", nil))
		return false
	}
	return true
}
