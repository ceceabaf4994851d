// Package model defines data structures for the chat state server.
package model

import (
	"strings"
)

// ConversationMeta is the sidebar summary of a conversation.
type ConversationMeta struct {
	Name   string `json:"name"`
	Unread int    `json:"unread"`
	Avatar string `json:"avatar,omitempty"`
}

// Conversation pairs a conversation's metadata with its ordered messages.
type Conversation struct {
	ID       string           `json:"id"`
	Meta     ConversationMeta `json:"meta"`
	Messages []Message        `json:"messages"`
	Typing   bool             `json:"typing"`
}

// ConversationSummary is one row of the filtered conversation list.
type ConversationSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LastMessage string `json:"last_message"`
	Unread      int    `json:"unread"`
}

// Filter selects which conversations the list shows.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterGroups Filter = "groups"
)

// GroupMarker is the substring that identifies group conversations by name.
const GroupMarker = "group"

// ParseFilter maps a query value to a Filter. Unknown values mean all.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(s)) {
	case FilterUnread:
		return FilterUnread
	case FilterGroups:
		return FilterGroups
	default:
		return FilterAll
	}
}

// Matches reports whether a summary passes the query and filter.
func (f Filter) Matches(s ConversationSummary, query string) bool {
	name := strings.ToLower(s.Name)
	if !strings.Contains(name, strings.ToLower(query)) {
		return false
	}
	switch f {
	case FilterUnread:
		return s.Unread > 0
	case FilterGroups:
		return strings.Contains(name, GroupMarker)
	default:
		return true
	}
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	Name string `json:"name"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
	SelectedID    string                `json:"selected_id"`
}

// SelectionResponse reports the selected conversation id ("" for none).
type SelectionResponse struct {
	SelectedID string `json:"selected_id"`
}
