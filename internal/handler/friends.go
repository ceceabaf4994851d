package handler

import (
	"errors"
	"net/http"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/internal/service"
)

// FriendHandler handles the find-friends panel.
type FriendHandler struct {
	friends       *service.FriendService
	conversations *service.ConversationService
	localizer     Localizer
}

// NewFriendHandler creates a new friend handler.
func NewFriendHandler(friends *service.FriendService, conversations *service.ConversationService, localizer Localizer) *FriendHandler {
	return &FriendHandler{
		friends:       friends,
		conversations: conversations,
		localizer:     localizer,
	}
}

// Search handles GET /api/v1/friends?q=
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	source := localize(r, h.localizer, "suggestedSource", nil)

	resp := &model.FriendSearchResponse{Friends: []model.Friend{}}
	for _, name := range h.friends.Search(query) {
		resp.Friends = append(resp.Friends, model.Friend{Name: name, Source: source})
	}
	if len(resp.Friends) == 0 {
		resp.Notice = localize(r, h.localizer, "notFound", map[string]any{"Query": query})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /api/v1/friends
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddFriendRequest
	if !decodeJSON(w, r, h.localizer, &req) {
		return
	}

	id, err := h.friends.Add(req.Name)
	if errors.Is(err, service.ErrUnknownFriend) {
		writeError(w, http.StatusNotFound, localize(r, h.localizer, "notFound", map[string]any{"Query": req.Name}))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	conv, err := h.conversations.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, localize(r, h.localizer, "conversationNotFound", nil))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"conversation": conv,
		"notice":       localize(r, h.localizer, "friendRequested", map[string]any{"Name": conv.Meta.Name}),
	})
}
