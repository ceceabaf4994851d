// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
	"github.com/enet-chat/chat-server/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	conversations *service.ConversationService
	messages      *service.MessageService
	localizer     Localizer
	logger        *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(
	convSvc *service.ConversationService,
	msgSvc *service.MessageService,
	localizer Localizer,
	log *logger.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversations: convSvc,
		messages:      msgSvc,
		localizer:     localizer,
		logger:        log,
	}
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	if errs := middleware.ValidateName(req.Name); len(errs) > 0 {
		writeValidation(w, r, h.localizer, errs)
		return
	}

	id, err := h.conversations.CreateNamed(req.Name)
	if err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	conv, err := h.conversations.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, localize(r, h.localizer, "conversationNotFound", nil))
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// List handles GET /api/v1/conversations?q=&filter=
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	filter := model.ParseFilter(r.URL.Query().Get("filter"))

	convs := h.conversations.List(query, filter)
	writeJSON(w, http.StatusOK, &model.ListConversationsResponse{
		Conversations: convs,
		Total:         len(convs),
		SelectedID:    h.conversations.Selected(),
	})
}

// Selected handles GET /api/v1/conversations/selected
func (h *ConversationHandler) Selected(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &model.SelectionResponse{SelectedID: h.conversations.Selected()})
}

// Get handles GET /api/v1/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	conv, err := h.conversations.Get(conversationID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	conv.Typing = h.messages.Typing(conversationID)

	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /api/v1/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	selected, err := h.conversations.Delete(conversationID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.SelectionResponse{SelectedID: selected})
}

// Select handles POST /api/v1/conversations/{id}/select
func (h *ConversationHandler) Select(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	h.conversations.Select(conversationID)
	writeJSON(w, http.StatusOK, &model.SelectionResponse{SelectedID: conversationID})
}

// MarkRead handles POST /api/v1/conversations/{id}/read
func (h *ConversationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.updateUnread(w, r, h.conversations.MarkRead)
}

// MarkUnread handles POST /api/v1/conversations/{id}/unread
func (h *ConversationHandler) MarkUnread(w http.ResponseWriter, r *http.Request) {
	h.updateUnread(w, r, h.conversations.MarkUnread)
}

func (h *ConversationHandler) updateUnread(w http.ResponseWriter, r *http.Request, update func(string) error) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	if err := update(conversationID); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	conv, err := h.conversations.Get(conversationID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv.Meta)
}

func (h *ConversationHandler) conversationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

func (h *ConversationHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrConversationNotFound) {
		writeError(w, http.StatusNotFound, localize(r, h.localizer, "conversationNotFound", nil))
		return
	}
	h.logger.Error("conversation operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
