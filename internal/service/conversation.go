// Package service holds the chat state containers and their operations.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/metrics"
)

var (
	// ErrConversationNotFound is returned for ids with no conversation.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrConversationExists is returned when creating an id that is taken.
	ErrConversationExists = errors.New("conversation already exists")
	// ErrEmptyName is returned when a conversation name is blank.
	ErrEmptyName = errors.New("conversation name is empty")
	// ErrEmptyID is returned when creating a conversation with a blank id,
	// which would collide with the no-selection value.
	ErrEmptyID = errors.New("conversation id is empty")
)

// Publisher receives state-change events.
type Publisher interface {
	Publish(evt model.Event)
}

// ConversationService owns conversation metadata, per-conversation message
// lists and the selected conversation. Metadata and message lists are always
// created and removed together.
type ConversationService struct {
	clock     clock.Clock
	publisher Publisher
	logger    *logger.Logger

	mu       sync.RWMutex
	order    []string
	meta     map[string]*model.ConversationMeta
	messages map[string][]model.Message
	selected string
	lastID   int64

	onDelete []func(id string)
}

// NewConversationService creates an empty conversation store.
func NewConversationService(clk clock.Clock, pub Publisher, log *logger.Logger) *ConversationService {
	return &ConversationService{
		clock:     clk,
		publisher: pub,
		logger:    log,
		meta:      make(map[string]*model.ConversationMeta),
		messages:  make(map[string][]model.Message),
	}
}

// SeedDefaults loads the conversations present at process start.
func (s *ConversationService) SeedDefaults() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked("1", model.ConversationMeta{Name: "Bot Support", Unread: 2}, []model.Message{{
		ID:        "1",
		Text:      "Xin chào! Chào mừng bạn đến với E-Net Chat.",
		Sender:    model.SenderBot,
		Timestamp: now,
	}})
	s.insertLocked("2", model.ConversationMeta{Name: "Group Chat"}, []model.Message{{
		ID:        "1",
		Text:      "Welcome to group chat! 🎉",
		Sender:    "Alice",
		Timestamp: now,
	}})
}

// OnDelete registers fn to run after a conversation is deleted. Hooks run
// without the store lock held.
func (s *ConversationService) OnDelete(fn func(id string)) {
	s.mu.Lock()
	s.onDelete = append(s.onDelete, fn)
	s.mu.Unlock()
}

// NextID returns a fresh id derived from the current time in milliseconds.
// Ids are strictly increasing for the lifetime of the store.
func (s *ConversationService) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked()
}

func (s *ConversationService) nextIDLocked() string {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// Select records id as the selected conversation and resets its unread
// counter. Unknown ids are recorded as-is; "" means no selection.
func (s *ConversationService) Select(id string) {
	s.mu.Lock()
	s.selected = id
	meta, ok := s.meta[id]
	if ok {
		meta.Unread = 0
	}
	s.mu.Unlock()

	s.publish(model.Event{Type: model.EventSelectionChanged, ConversationID: id})
	if ok {
		s.publishUnread(id, 0)
	}
}

// Selected returns the selected conversation id, or "" for none.
func (s *ConversationService) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Exists reports whether id names a conversation.
func (s *ConversationService) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.meta[id]
	return ok
}

// AppendMessage adds msg to the end of a conversation. Missing id and
// timestamp are filled in. Unread counters are not touched.
func (s *ConversationService) AppendMessage(convID string, msg model.Message) (model.Message, error) {
	s.mu.Lock()
	if _, ok := s.meta[convID]; !ok {
		s.mu.Unlock()
		return model.Message{}, fmt.Errorf("append to %q: %w", convID, ErrConversationNotFound)
	}
	if msg.ID == "" {
		msg.ID = s.nextIDLocked()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.clock.Now()
	}
	s.messages[convID] = append(s.messages[convID], msg)
	s.mu.Unlock()

	origin := "received"
	if msg.IsMine {
		origin = "mine"
	}
	metrics.MessagesTotal.WithLabelValues(origin).Inc()

	appended := msg
	s.publish(model.Event{Type: model.EventMessageAppended, ConversationID: convID, Message: &appended})
	return msg, nil
}

// Clear empties a conversation's message list. Metadata is unaffected.
func (s *ConversationService) Clear(convID string) error {
	s.mu.Lock()
	if _, ok := s.meta[convID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("clear %q: %w", convID, ErrConversationNotFound)
	}
	s.messages[convID] = []model.Message{}
	s.mu.Unlock()

	s.publish(model.Event{Type: model.EventConversationCleared, ConversationID: convID})
	return nil
}

// MarkRead sets the unread counter to zero.
func (s *ConversationService) MarkRead(convID string) error {
	return s.setUnread(convID, func(int) int { return 0 })
}

// MarkUnread increments the unread counter.
func (s *ConversationService) MarkUnread(convID string) error {
	return s.setUnread(convID, func(n int) int { return n + 1 })
}

func (s *ConversationService) setUnread(convID string, next func(int) int) error {
	s.mu.Lock()
	meta, ok := s.meta[convID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update unread of %q: %w", convID, ErrConversationNotFound)
	}
	meta.Unread = next(meta.Unread)
	unread := meta.Unread
	s.mu.Unlock()

	s.publishUnread(convID, unread)
	return nil
}

// Delete removes a conversation's metadata and messages together. If it was
// selected, the first remaining conversation in insertion order becomes
// selected, or none. The new selection is returned.
func (s *ConversationService) Delete(convID string) (string, error) {
	s.mu.Lock()
	if _, ok := s.meta[convID]; !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("delete %q: %w", convID, ErrConversationNotFound)
	}
	delete(s.meta, convID)
	delete(s.messages, convID)
	for i, id := range s.order {
		if id == convID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}

	selectionChanged := s.selected == convID
	if selectionChanged {
		s.selected = ""
		if len(s.order) > 0 {
			s.selected = s.order[0]
		}
	}
	selected := s.selected
	hooks := append([]func(string){}, s.onDelete...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(convID)
	}

	metrics.ConversationsTotal.WithLabelValues("deleted").Inc()
	s.logger.Info("conversation deleted",
		zap.String("conversation_id", convID),
		zap.String("selected_id", selected),
	)

	s.publish(model.Event{Type: model.EventConversationDeleted, ConversationID: convID})
	if selectionChanged {
		s.publish(model.Event{Type: model.EventSelectionChanged, ConversationID: selected})
	}
	return selected, nil
}

// Create adds an empty conversation with no unread messages. The id must
// not already exist.
func (s *ConversationService) Create(id, name string) error {
	return s.Insert(id, model.ConversationMeta{Name: name})
}

// CreateNamed creates a conversation under a fresh time-derived id.
func (s *ConversationService) CreateNamed(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	id := s.nextIDLocked()
	for s.meta[id] != nil {
		id = s.nextIDLocked()
	}
	s.insertLocked(id, model.ConversationMeta{Name: name}, nil)
	s.mu.Unlock()

	s.created(id, name)
	return id, nil
}

// Insert adds a conversation with the given metadata and initial messages.
func (s *ConversationService) Insert(id string, meta model.ConversationMeta, initial ...model.Message) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(meta.Name) == "" {
		return ErrEmptyName
	}
	if meta.Unread < 0 {
		meta.Unread = 0
	}

	s.mu.Lock()
	if _, ok := s.meta[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("create %q: %w", id, ErrConversationExists)
	}
	for i := range initial {
		if initial[i].ID == "" {
			initial[i].ID = s.nextIDLocked()
		}
		if initial[i].Timestamp.IsZero() {
			initial[i].Timestamp = s.clock.Now()
		}
	}
	s.insertLocked(id, meta, initial)
	s.mu.Unlock()

	s.created(id, meta.Name)
	return nil
}

func (s *ConversationService) insertLocked(id string, meta model.ConversationMeta, initial []model.Message) {
	m := meta
	s.meta[id] = &m
	s.messages[id] = append([]model.Message{}, initial...)
	s.order = append(s.order, id)
}

func (s *ConversationService) created(id, name string) {
	metrics.ConversationsTotal.WithLabelValues("created").Inc()
	s.logger.Info("conversation created",
		zap.String("conversation_id", id),
		zap.String("name", name),
	)
	s.publish(model.Event{Type: model.EventConversationCreated, ConversationID: id})
}

// List returns conversation summaries in insertion order, keeping those
// whose name contains query (case-insensitive) and that pass filter.
func (s *ConversationService) List(query string, filter model.Filter) []model.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ConversationSummary, 0, len(s.order))
	for _, id := range s.order {
		meta := s.meta[id]
		summary := model.ConversationSummary{
			ID:     id,
			Name:   meta.Name,
			Unread: meta.Unread,
		}
		if msgs := s.messages[id]; len(msgs) > 0 {
			summary.LastMessage = msgs[len(msgs)-1].Text
		}
		if filter.Matches(summary, query) {
			out = append(out, summary)
		}
	}
	return out
}

// Get returns a copy of one conversation.
func (s *ConversationService) Get(convID string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.meta[convID]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", convID, ErrConversationNotFound)
	}
	return &model.Conversation{
		ID:       convID,
		Meta:     *meta,
		Messages: append([]model.Message{}, s.messages[convID]...),
	}, nil
}

// Messages returns a copy of a conversation's messages.
func (s *ConversationService) Messages(convID string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.meta[convID]; !ok {
		return nil, fmt.Errorf("messages of %q: %w", convID, ErrConversationNotFound)
	}
	return append([]model.Message{}, s.messages[convID]...), nil
}

// IDs returns the conversation ids in insertion order.
func (s *ConversationService) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order...)
}

// Now exposes the store's clock to the message service.
func (s *ConversationService) Now() time.Time {
	return s.clock.Now()
}

func (s *ConversationService) publishUnread(convID string, unread int) {
	s.publish(model.Event{Type: model.EventUnreadChanged, ConversationID: convID, Unread: &unread})
}

func (s *ConversationService) publish(evt model.Event) {
	if s.publisher != nil {
		s.publisher.Publish(evt)
	}
}
