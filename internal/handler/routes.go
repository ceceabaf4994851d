package handler

import (
	"github.com/go-chi/chi/v5"
)

// API groups the handlers mounted under /api/v1.
type API struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Conversations *ConversationHandler
	Messages      *MessageHandler
	Stream        *StreamHandler
	Preferences   *PreferencesHandler
	Friends       *FriendHandler
	I18n          *I18nHandler
}

// Mount registers the API routes on r.
func (a *API) Mount(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", a.Auth.Login)
		r.Post("/register", a.Auth.Register)
		r.Post("/logout", a.Auth.Logout)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", a.Profile.Get)
		r.Patch("/", a.Profile.Update)
		r.Post("/avatar", a.Profile.UploadAvatar)
	})

	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", a.Conversations.Create)
		r.Get("/", a.Conversations.List)
		r.Get("/selected", a.Conversations.Selected)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.Conversations.Get)
			r.Delete("/", a.Conversations.Delete)
			r.Post("/select", a.Conversations.Select)
			r.Post("/read", a.Conversations.MarkRead)
			r.Post("/unread", a.Conversations.MarkUnread)

			// Messages
			r.Get("/messages", a.Messages.List)
			r.Post("/messages", a.Messages.Send)
			r.Delete("/messages", a.Messages.Clear)
		})
	})

	r.Get("/events", a.Stream.Events)

	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", a.Preferences.Get)
		r.Put("/", a.Preferences.Update)
		r.Post("/theme/toggle", a.Preferences.ToggleTheme)
	})

	r.Get("/i18n/{lang}", a.I18n.Table)

	r.Route("/friends", func(r chi.Router) {
		r.Get("/", a.Friends.Search)
		r.Post("/", a.Friends.Add)
	})
}
