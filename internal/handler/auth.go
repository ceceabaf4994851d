package handler

import (
	"net/http"

	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
)

// AuthHandler validates the login and registration forms. Credentials are
// never checked; a valid login restores the seed user.
type AuthHandler struct {
	profiles  *service.ProfileService
	localizer Localizer
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(profiles *service.ProfileService, localizer Localizer) *AuthHandler {
	return &AuthHandler{
		profiles:  profiles,
		localizer: localizer,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	if errs := middleware.ValidateLogin(req); len(errs) > 0 {
		writeValidation(w, r, h.localizer, errs)
		return
	}

	h.profiles.Login()
	writeJSON(w, http.StatusOK, &model.NavigateResponse{Redirect: "/chat"})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	if errs := middleware.ValidateRegister(req); len(errs) > 0 {
		writeValidation(w, r, h.localizer, errs)
		return
	}

	writeJSON(w, http.StatusOK, &model.NavigateResponse{Redirect: "/login"})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.profiles.Logout()
	writeJSON(w, http.StatusOK, map[string]string{
		"redirect": "/login",
		"notice":   localize(r, h.localizer, "loggedOut", nil),
	})
}
