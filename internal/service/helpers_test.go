package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/i18n"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(evt model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventType, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Type)
	}
	return out
}

func (r *recorder) count(t model.EventType, convID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, evt := range r.events {
		if evt.Type == t && evt.ConversationID == convID {
			n++
		}
	}
	return n
}

type fixture struct {
	clock         *clock.FakeClock
	events        *recorder
	translator    *i18n.Provider
	conversations *ConversationService
	messages      *MessageService
}

func newFixture(t *testing.T, generator ReplyGenerator) *fixture {
	t.Helper()

	tr, err := i18n.New(i18n.Vietnamese)
	require.NoError(t, err)

	f := &fixture{
		clock:      clock.Fake(epoch),
		events:     &recorder{},
		translator: tr,
	}
	f.conversations = NewConversationService(f.clock, f.events, logger.NewNop())
	f.conversations.SeedDefaults()
	f.messages = NewMessageService(f.conversations, f.clock, f.events, tr, generator, DefaultReplyDelay, logger.NewNop())
	t.Cleanup(f.messages.Close)
	return f
}

// assertBijection checks that metadata and message lists share one key set.
func assertBijection(t *testing.T, s *ConversationService) {
	t.Helper()
	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.messages, len(s.meta))
	require.Len(t, s.order, len(s.meta))
	for id := range s.meta {
		_, ok := s.messages[id]
		require.True(t, ok, "conversation %q has no message list", id)
	}
}
