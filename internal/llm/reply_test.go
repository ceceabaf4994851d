package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/model"
)

type stubClient struct {
	content string
	err     error
	got     *CompletionRequest
}

func (s *stubClient) Complete(_ context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResponse{Content: s.content}, nil
}

func (s *stubClient) Name() string     { return "stub" }
func (s *stubClient) Models() []string { return nil }

func TestBuildPromptAlternatesRoles(t *testing.T) {
	history := []model.Message{
		{Text: "Welcome!", Sender: model.SenderBot},
		{Text: "hello", Sender: model.SenderYou, IsMine: true},
		{Text: "anyone?", Sender: model.SenderYou, IsMine: true},
		{Text: "I received your message!", Sender: model.SenderBot},
		{Text: "thanks", Sender: model.SenderYou, IsMine: true},
	}

	got := BuildPrompt("en", history)
	require.Len(t, got, 3)
	assert.Equal(t, RoleUser, got[0].Role)
	assert.Contains(t, got[0].Content, "English")
	assert.Contains(t, got[0].Content, "hello\nanyone?")
	assert.Equal(t, RoleAssistant, got[1].Role)
	assert.Equal(t, RoleUser, got[2].Role)
}

func TestBuildPromptEmptyHistory(t *testing.T) {
	got := BuildPrompt("xx", nil)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Content, "Vietnamese")
}

func TestGenerate(t *testing.T) {
	stub := &stubClient{content: "  Hi there!  "}
	g := NewReplyGenerator(stub, "tiny", time.Second)

	text, err := g.Generate(context.Background(), "en", []model.Message{{Text: "hi", IsMine: true}})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", text)
	assert.Equal(t, "tiny", stub.got.Model)
}

func TestGenerateErrors(t *testing.T) {
	g := NewReplyGenerator(&stubClient{err: errors.New("boom")}, "", 0)
	_, err := g.Generate(context.Background(), "en", nil)
	assert.ErrorContains(t, err, "stub completion failed")

	g = NewReplyGenerator(&stubClient{content: "   "}, "", 0)
	_, err = g.Generate(context.Background(), "en", nil)
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestFromKeys(t *testing.T) {
	_, err := FromKeys("", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err := FromKeys("", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	c, err = FromKeys("ak-test", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())
}
