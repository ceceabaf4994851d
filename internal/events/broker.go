// Package events fans state-change events out to view-layer subscribers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/metrics"
)

const (
	subscriberBuffer = 64
	mirrorBuffer     = 256
	mirrorTimeout    = 5 * time.Second
)

// Mirror receives a copy of every event, e.g. a NATS JetStream stream.
type Mirror interface {
	PublishEvent(ctx context.Context, evt *model.Event) error
}

// Subscription is one consumer of the event feed.
type Subscription struct {
	ID string
	C  <-chan model.Event

	ch chan model.Event
}

// Broker delivers events to subscribers without blocking the publisher.
// A subscriber whose buffer is full misses the event.
type Broker struct {
	clock  clock.Clock
	logger *logger.Logger

	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool

	mirror   Mirror
	mirrorCh chan model.Event
	done     chan struct{}
}

// NewBroker creates a broker. mirror may be nil.
func NewBroker(clk clock.Clock, log *logger.Logger, mirror Mirror) *Broker {
	b := &Broker{
		clock:  clk,
		logger: log,
		subs:   make(map[string]*Subscription),
		mirror: mirror,
		done:   make(chan struct{}),
	}
	if mirror != nil {
		b.mirrorCh = make(chan model.Event, mirrorBuffer)
		go b.runMirror()
	} else {
		close(b.done)
	}
	return b
}

// Subscribe registers a new subscriber.
func (b *Broker) Subscribe() *Subscription {
	ch := make(chan model.Event, subscriberBuffer)
	sub := &Subscription{ID: uuid.NewString(), C: ch, ch: ch}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.ID]; ok {
		delete(b.subs, sub.ID)
		close(sub.ch)
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish stamps evt and delivers it to every subscriber and the mirror.
func (b *Broker) Publish(evt model.Event) {
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = b.clock.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			metrics.EventsDropped.Inc()
		}
	}

	if b.mirrorCh != nil {
		select {
		case b.mirrorCh <- evt:
		default:
			metrics.EventsDropped.Inc()
			b.logger.Warn("event mirror backlog full", zap.String("type", string(evt.Type)))
		}
	}
}

// Close disconnects all subscribers and drains the mirror.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
	if b.mirrorCh != nil {
		close(b.mirrorCh)
	}
	b.mu.Unlock()

	<-b.done
}

func (b *Broker) runMirror() {
	defer close(b.done)
	for evt := range b.mirrorCh {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		if err := b.mirror.PublishEvent(ctx, &evt); err != nil {
			b.logger.Warn("failed to mirror event",
				zap.String("type", string(evt.Type)),
				zap.String("conversation_id", evt.ConversationID),
				zap.Error(err),
			)
		}
		cancel()
	}
}
