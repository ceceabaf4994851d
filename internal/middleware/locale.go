package middleware

import (
	"net/http"

	"github.com/enet-chat/chat-server/internal/i18n"
)

// Locale resolves the language of a request: the lang query parameter,
// then Accept-Language, then the persisted language returned by current.
func Locale(current func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ResolveLanguage(r, current())
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), lang)))
		})
	}
}

// ResolveLanguage picks the language for r, using fallback when the
// request expresses no supported preference.
func ResolveLanguage(r *http.Request, fallback string) string {
	if lang, ok := i18n.Normalize(r.URL.Query().Get("lang")); ok {
		return lang
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		return i18n.Detect(header)
	}
	if lang, ok := i18n.Normalize(fallback); ok {
		return lang
	}
	return i18n.Fallback
}
