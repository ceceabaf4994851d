package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/middleware"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
)

// MessageHandler handles message endpoints. It shares the conversation
// handler's id parsing and error mapping.
type MessageHandler struct {
	*ConversationHandler
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(conversations *ConversationHandler) *MessageHandler {
	return &MessageHandler{ConversationHandler: conversations}
}

// List handles GET /api/v1/conversations/{id}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	msgs, err := h.conversations.Messages(conversationID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.ListMessagesResponse{
		Messages: msgs,
		Typing:   h.messages.Typing(conversationID),
	})
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	if err := middleware.ValidateMessageText(req.Text); err != nil {
		writeValidation(w, r, h.localizer, middleware.FieldErrors{"text": "emptyMessage"})
		return
	}

	msg, err := h.messages.Send(r.Context(), conversationID, req.Text)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeValidation(w, r, h.localizer, middleware.FieldErrors{"text": "emptyMessage"})
		return
	case err != nil:
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.Debug("message accepted",
		zap.String("conversation_id", conversationID),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
	)

	writeJSON(w, http.StatusCreated, &model.SendMessageResponse{
		Message: msg,
		Typing:  h.messages.Typing(conversationID),
	})
}

// Clear handles DELETE /api/v1/conversations/{id}/messages
func (h *MessageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	if err := h.conversations.Clear(conversationID); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"notice": localize(r, h.localizer, "clearedHistory", nil),
	})
}
