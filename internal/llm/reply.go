package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/enet-chat/chat-server/internal/model"
)

// historyWindow bounds how many recent messages are sent as context.
const historyWindow = 20

// ErrEmptyReply is returned when the provider answers with no text.
var ErrEmptyReply = errors.New("empty reply")

var languageNames = map[string]string{
	"en": "English",
	"vi": "Vietnamese",
}

// ReplyGenerator phrases the bot's auto-reply with an LLM.
type ReplyGenerator struct {
	client  Client
	model   string
	timeout time.Duration
}

// NewReplyGenerator creates a generator. model may be empty to use the
// provider default.
func NewReplyGenerator(client Client, model string, timeout time.Duration) *ReplyGenerator {
	return &ReplyGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// Generate returns a short reply to the conversation history in lang.
func (g *ReplyGenerator) Generate(ctx context.Context, lang string, history []model.Message) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Complete(ctx, &CompletionRequest{
		Model:       g.model,
		Messages:    BuildPrompt(lang, history),
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", g.client.Name(), err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// BuildPrompt converts chat history into alternating user/assistant turns
// that start with a user turn, as both providers require. The instruction
// is folded into the first user turn.
func BuildPrompt(lang string, history []model.Message) []ChatMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	name, ok := languageNames[lang]
	if !ok {
		name = languageNames["vi"]
	}
	instruction := fmt.Sprintf("You are the E-Net Chat support bot. Reply in one or two short, friendly sentences in %s.", name)

	var out []ChatMessage
	for _, msg := range history {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := RoleAssistant
		if msg.IsMine {
			role = RoleUser
		}
		if len(out) == 0 && role == RoleAssistant {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n" + msg.Text
			continue
		}
		out = append(out, ChatMessage{Role: role, Content: msg.Text})
	}

	if len(out) == 0 {
		return []ChatMessage{{Role: RoleUser, Content: instruction}}
	}
	out[0].Content = instruction + "\n\n" + out[0].Content
	return out
}
