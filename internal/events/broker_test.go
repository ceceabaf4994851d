package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingMirror struct {
	mu     sync.Mutex
	events []model.EventType
	err    error
}

func (m *recordingMirror) PublishEvent(_ context.Context, evt *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt.Type)
	return m.err
}

func TestPublishFansOut(t *testing.T) {
	b := NewBroker(clock.Fake(epoch), logger.NewNop(), nil)
	defer b.Close()

	first := b.Subscribe()
	second := b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	b.Publish(model.Event{Type: model.EventConversationCreated, ConversationID: "1"})

	for _, sub := range []*Subscription{first, second} {
		evt := <-sub.C
		assert.Equal(t, model.EventConversationCreated, evt.Type)
		assert.Equal(t, epoch, evt.CreatedAt)
	}
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroker(clock.Fake(epoch), logger.NewNop(), nil)
	defer b.Close()

	sub := b.Subscribe()
	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(model.Event{Type: model.EventUnreadChanged})
	}
	assert.Len(t, sub.C, subscriberBuffer)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(clock.Fake(epoch), logger.NewNop(), nil)
	defer b.Close()

	sub := b.Subscribe()
	b.Unsubscribe(sub)
	b.Unsubscribe(sub)

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())
}

func TestCloseDrainsMirror(t *testing.T) {
	mirror := &recordingMirror{err: errors.New("nats down")}
	b := NewBroker(clock.Fake(epoch), logger.NewNop(), mirror)

	b.Publish(model.Event{Type: model.EventConversationCreated})
	b.Publish(model.Event{Type: model.EventConversationDeleted})
	b.Close()

	require.Len(t, mirror.events, 2)
	assert.Equal(t, model.EventConversationDeleted, mirror.events[1])

	sub := b.Subscribe()
	_, ok := <-sub.C
	assert.False(t, ok)
}
