package model

import (
	"time"
)

// EventType represents the type of state-change event.
type EventType string

const (
	EventMessageAppended     EventType = "message_appended"
	EventConversationCreated EventType = "conversation_created"
	EventConversationDeleted EventType = "conversation_deleted"
	EventConversationCleared EventType = "conversation_cleared"
	EventUnreadChanged       EventType = "unread_changed"
	EventSelectionChanged    EventType = "selection_changed"
	EventTypingStarted       EventType = "typing_started"
	EventTypingStopped       EventType = "typing_stopped"
	EventProfileUpdated      EventType = "profile_updated"
	EventLoggedOut           EventType = "logged_out"
	EventPreferencesChanged  EventType = "preferences_changed"
)

// Event tells the view layer which part of the state changed.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Message        *Message  `json:"message,omitempty"`
	Unread         *int      `json:"unread,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ErrorEvent is sent on the event stream when something goes wrong.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeartbeatEvent keeps idle event streams open.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}
