package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
	"github.com/enet-chat/chat-server/pkg/logger"
)

// avatarField is the multipart form field carrying the avatar image.
const avatarField = "avatar"

// ProfileHandler handles the current user's profile.
type ProfileHandler struct {
	profiles  *service.ProfileService
	localizer Localizer
	logger    *logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles *service.ProfileService, localizer Localizer, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		localizer: localizer,
		logger:    log,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Current()
	if err != nil {
		h.writeProfileError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Update handles PATCH /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	if errs := middleware.ValidateProfileUpdate(req); len(errs) > 0 {
		writeValidation(w, r, h.localizer, errs)
		return
	}

	profile, err := h.profiles.Update(req)
	if err != nil {
		h.writeProfileError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"notice":  localize(r, h.localizer, "updateSuccess", nil),
	})
}

// UploadAvatar handles POST /api/v1/profile/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxAvatarSize+1<<20)
	if err := r.ParseMultipartForm(middleware.MaxAvatarSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusUnprocessableEntity, localize(r, h.localizer, "uploadSizeError", nil))
			return
		}
		writeError(w, http.StatusBadRequest, localize(r, h.localizer, "invalidRequest", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(avatarField)
	if err != nil {
		writeError(w, http.StatusBadRequest, localize(r, h.localizer, "invalidRequest", nil))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, localize(r, h.localizer, "invalidRequest", nil))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	switch err := middleware.ValidateAvatar(contentType, int64(len(data))); {
	case errors.Is(err, middleware.ErrUnsupportedImageType):
		writeError(w, http.StatusUnprocessableEntity, localize(r, h.localizer, "uploadTypeError", nil))
		return
	case errors.Is(err, middleware.ErrImageTooLarge):
		writeError(w, http.StatusUnprocessableEntity, localize(r, h.localizer, "uploadSizeError", nil))
		return
	}

	avatar := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	profile, err := h.profiles.Update(model.ProfileUpdate{Avatar: &avatar})
	if err != nil {
		h.writeProfileError(w, r, err)
		return
	}

	h.logger.Info("avatar updated",
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"notice":  localize(r, h.localizer, "avatarUpdated", nil),
	})
}

func (h *ProfileHandler) writeProfileError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNoCurrentUser) {
		writeError(w, http.StatusNotFound, localize(r, h.localizer, "notLoggedIn", nil))
		return
	}
	h.logger.Error("profile operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, localize(r, h.localizer, "updateError", nil))
}
