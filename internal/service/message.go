package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/metrics"
)

// DefaultReplyDelay is how long the bot "types" before answering.
const DefaultReplyDelay = 900 * time.Millisecond

// ErrEmptyMessage is returned when the trimmed message text is empty.
var ErrEmptyMessage = errors.New("message is empty")

// Translator resolves localized strings.
type Translator interface {
	Language() string
	Lookup(lang, key string, data map[string]any) string
}

// ReplyGenerator phrases a reply to a conversation. Optional; the canned
// reply is used when it is nil or fails.
type ReplyGenerator interface {
	Generate(ctx context.Context, lang string, history []model.Message) (string, error)
}

// MessageService sends user messages and simulates the correspondent's
// reply. Each conversation is idle or awaiting a reply; every send schedules
// one reply timer, and the typing indicator stays on while any timer of that
// conversation is pending. Deleting a conversation cancels its timers.
type MessageService struct {
	conversations *ConversationService
	clock         clock.Clock
	publisher     Publisher
	translator    Translator
	generator     ReplyGenerator
	delay         time.Duration
	logger        *logger.Logger

	mu      sync.Mutex
	pending map[string]map[uint64]clock.Timer
	nextKey uint64
	closed  bool
}

// NewMessageService creates a message service bound to conversations.
// generator may be nil.
func NewMessageService(
	conversations *ConversationService,
	clk clock.Clock,
	pub Publisher,
	translator Translator,
	generator ReplyGenerator,
	delay time.Duration,
	log *logger.Logger,
) *MessageService {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	s := &MessageService{
		conversations: conversations,
		clock:         clk,
		publisher:     pub,
		translator:    translator,
		generator:     generator,
		delay:         delay,
		logger:        log,
		pending:       make(map[string]map[uint64]clock.Timer),
	}
	conversations.OnDelete(s.cancel)
	return s
}

// Send appends the user's message and schedules the auto-reply.
func (s *MessageService) Send(ctx context.Context, convID, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg, err := s.conversations.AppendMessage(convID, model.Message{
		Text:   text,
		Sender: model.SenderYou,
		IsMine: true,
	})
	if err != nil {
		return nil, err
	}

	s.schedule(convID, s.translator.Language())

	s.logger.Debug("message sent",
		zap.String("conversation_id", convID),
		zap.String("message_id", msg.ID),
	)
	return &msg, nil
}

// Typing reports whether a reply is pending for convID.
func (s *MessageService) Typing(convID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[convID]) > 0
}

// Pending returns the number of scheduled replies across conversations.
func (s *MessageService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, timers := range s.pending {
		n += len(timers)
	}
	return n
}

// Close cancels every pending reply. Later sends still append the user's
// message but schedule nothing.
func (s *MessageService) Close() {
	s.mu.Lock()
	s.closed = true
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.cancel(id)
	}
}

func (s *MessageService) schedule(convID, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// The delete hook takes s.mu, so a conversation removed after this
	// check still has the new timer cancelled.
	if !s.conversations.Exists(convID) {
		return
	}

	timers, ok := s.pending[convID]
	if !ok {
		timers = make(map[uint64]clock.Timer)
		s.pending[convID] = timers
	}
	key := s.nextKey
	s.nextKey++

	// The callback blocks on s.mu, so registering under the lock keeps it
	// from observing a missing entry.
	timers[key] = s.clock.AfterFunc(s.delay, func() {
		s.deliver(convID, key, lang)
	})
	metrics.RepliesPending.Inc()

	if len(timers) == 1 {
		s.publish(model.Event{Type: model.EventTypingStarted, ConversationID: convID})
	}
}

func (s *MessageService) isPending(convID string, key uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[convID][key]
	return ok
}

func (s *MessageService) deliver(convID string, key uint64, lang string) {
	if !s.isPending(convID, key) {
		return
	}

	text := s.replyText(convID, lang)

	s.mu.Lock()
	defer s.mu.Unlock()

	timers, ok := s.pending[convID]
	if _, live := timers[key]; !ok || !live {
		return
	}
	delete(timers, key)
	metrics.RepliesPending.Dec()

	_, err := s.conversations.AppendMessage(convID, model.Message{
		Text:   text,
		Sender: model.SenderBot,
	})
	if err != nil {
		s.logger.Warn("dropped reply", zap.String("conversation_id", convID), zap.Error(err))
	} else {
		metrics.RepliesTotal.WithLabelValues("delivered").Inc()
	}

	if len(timers) == 0 {
		delete(s.pending, convID)
		s.publish(model.Event{Type: model.EventTypingStopped, ConversationID: convID})
	}
}

func (s *MessageService) replyText(convID, lang string) string {
	canned := s.translator.Lookup(lang, "botAutoReply", nil)
	if s.generator == nil {
		return canned
	}

	history, err := s.conversations.Messages(convID)
	if err != nil {
		return canned
	}

	text, err := s.generator.Generate(context.Background(), lang, history)
	if err != nil {
		metrics.RepliesTotal.WithLabelValues("fallback").Inc()
		s.logger.Warn("reply generation failed, using canned reply",
			zap.String("conversation_id", convID),
			zap.Error(err),
		)
		return canned
	}
	return text
}

func (s *MessageService) cancel(convID string) {
	s.mu.Lock()
	timers := s.pending[convID]
	delete(s.pending, convID)
	s.mu.Unlock()

	if len(timers) == 0 {
		return
	}
	for _, t := range timers {
		t.Stop()
	}
	metrics.RepliesPending.Sub(float64(len(timers)))
	metrics.RepliesTotal.WithLabelValues("cancelled").Add(float64(len(timers)))
	s.logger.Info("cancelled pending replies",
		zap.String("conversation_id", convID),
		zap.Int("count", len(timers)),
	)
	s.publish(model.Event{Type: model.EventTypingStopped, ConversationID: convID})
}

func (s *MessageService) publish(evt model.Event) {
	if s.publisher != nil {
		s.publisher.Publish(evt)
	}
}
