package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enet-chat/chat-server/internal/model"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "chat.1.message_appended", EventSubject("1", model.EventMessageAppended))
	assert.Equal(t, "chat.app.preferences_changed", EventSubject("", model.EventPreferencesChanged))
	assert.Equal(t, "chat.a_b_c.typing_started", EventSubject("a.b c", model.EventTypingStarted))
}

func TestConversationFilter(t *testing.T) {
	assert.Equal(t, "chat.42.>", ConversationFilter("42"))
	assert.Equal(t, "chat.x__.>", ConversationFilter("x*>"))
}
