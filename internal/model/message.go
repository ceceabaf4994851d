package model

import (
	"time"
)

// Sender names used by locally produced messages.
const (
	SenderYou = "You"
	SenderBot = "Bot"
)

// Message is a single chat entry. Messages are never mutated once appended.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsMine    bool      `json:"is_mine"`
}

// SendMessageRequest is the request to send a new message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse is the response after sending a message.
type SendMessageResponse struct {
	Message *Message `json:"message"`
	Typing  bool     `json:"typing"`
}

// ListMessagesResponse is the response for listing messages.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Typing   bool      `json:"typing"`
}
