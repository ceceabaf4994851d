package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/enet-chat/chat-server/internal/model"
)

// ErrUnknownFriend is returned when adding a name outside the roster.
var ErrUnknownFriend = errors.New("unknown friend")

// SuggestedFriends is the fixed roster offered by friend search.
var SuggestedFriends = []string{"Alice", "Bob", "Charlie", "Linh", "Dat"}

// FriendService searches the suggestion roster and turns a friend into a
// conversation.
type FriendService struct {
	conversations *ConversationService
	roster        []string
}

// NewFriendService creates a friend service over the default roster.
func NewFriendService(conversations *ConversationService) *FriendService {
	return &FriendService{
		conversations: conversations,
		roster:        SuggestedFriends,
	}
}

// Search returns roster names containing query, case-insensitively, in
// roster order. An empty query matches everyone.
func (s *FriendService) Search(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	for _, name := range s.roster {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
		}
	}
	return out
}

// Add creates a conversation with the named friend holding one unread
// greeting from them, and returns its id.
func (s *FriendService) Add(name string) (string, error) {
	friend, ok := s.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFriend, name)
	}

	for {
		id := s.conversations.NextID()
		err := s.conversations.Insert(id,
			model.ConversationMeta{Name: friend, Unread: 1},
			model.Message{Text: "Hi " + friend + "!", Sender: friend},
		)
		if errors.Is(err, ErrConversationExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return id, nil
	}
}

func (s *FriendService) lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, friend := range s.roster {
		if strings.EqualFold(friend, name) {
			return friend, true
		}
	}
	return "", false
}
