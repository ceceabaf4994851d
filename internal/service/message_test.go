package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/i18n"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string, _ []model.Message) (string, error) {
	g.calls++
	return g.text, g.err
}

func mustParse(t *testing.T, id string) int64 {
	t.Helper()
	n, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)
	return n
}

func TestSendSchedulesReply(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	msg, err := f.messages.Send(ctx, "1", "  Hello  ")
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, model.SenderYou, msg.Sender)
	assert.True(t, msg.IsMine)

	msgs, _ := f.conversations.Messages("1")
	require.Len(t, msgs, 2)
	assert.True(t, f.messages.Typing("1"))
	assert.False(t, f.messages.Typing("2"))

	f.clock.Advance(DefaultReplyDelay - 1)
	msgs, _ = f.conversations.Messages("1")
	assert.Len(t, msgs, 2)

	f.clock.Advance(1)
	msgs, _ = f.conversations.Messages("1")
	require.Len(t, msgs, 3)
	reply := msgs[2]
	assert.Equal(t, model.SenderBot, reply.Sender)
	assert.False(t, reply.IsMine)
	assert.Equal(t, f.translator.Lookup("vi", "botAutoReply", nil), reply.Text)
	assert.Greater(t, mustParse(t, reply.ID), mustParse(t, msg.ID))

	assert.False(t, f.messages.Typing("1"))
	assert.Equal(t, 0, f.messages.Pending())
	assert.Equal(t, 1, f.events.count(model.EventTypingStarted, "1"))
	assert.Equal(t, 1, f.events.count(model.EventTypingStopped, "1"))
}

func TestSendRejectsEmptyText(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.messages.Send(context.Background(), "1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msgs, _ := f.conversations.Messages("1")
	assert.Len(t, msgs, 1)
	assert.False(t, f.messages.Typing("1"))
}

func TestSendUnknownConversation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.messages.Send(context.Background(), "missing", "hi")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, 0, f.messages.Pending())
	assertBijection(t, f.conversations)
}

func TestTypingStaysOnUntilLastReply(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, "1", "one")
	require.NoError(t, err)
	f.clock.Advance(DefaultReplyDelay / 2)
	_, err = f.messages.Send(ctx, "1", "two")
	require.NoError(t, err)
	assert.Equal(t, 2, f.messages.Pending())

	f.clock.Advance(DefaultReplyDelay / 2)
	assert.True(t, f.messages.Typing("1"))

	f.clock.Advance(DefaultReplyDelay / 2)
	assert.False(t, f.messages.Typing("1"))

	msgs, _ := f.conversations.Messages("1")
	require.Len(t, msgs, 5)
	assert.Equal(t, model.SenderBot, msgs[3].Sender)
	assert.Equal(t, model.SenderBot, msgs[4].Sender)
	assert.Equal(t, 1, f.events.count(model.EventTypingStarted, "1"))
	assert.Equal(t, 1, f.events.count(model.EventTypingStopped, "1"))
}

func TestTypingIsPerConversation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, "1", "hi bot")
	require.NoError(t, err)
	f.clock.Advance(DefaultReplyDelay / 2)
	_, err = f.messages.Send(ctx, "2", "hi group")
	require.NoError(t, err)

	f.clock.Advance(DefaultReplyDelay / 2)
	assert.False(t, f.messages.Typing("1"))
	assert.True(t, f.messages.Typing("2"))
}

func TestDeleteCancelsPendingReply(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.messages.Send(context.Background(), "1", "hello")
	require.NoError(t, err)
	require.True(t, f.messages.Typing("1"))

	_, err = f.conversations.Delete("1")
	require.NoError(t, err)
	assert.False(t, f.messages.Typing("1"))
	assert.Equal(t, 0, f.messages.Pending())

	f.clock.Advance(DefaultReplyDelay)
	assert.False(t, f.conversations.Exists("1"))
	assertBijection(t, f.conversations)
	assert.Equal(t, 1, f.events.count(model.EventTypingStopped, "1"))
}

func TestReplyUsesActiveLanguageAtSend(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.translator.SetLanguage("en"))
	_, err := f.messages.Send(context.Background(), "2", "hello")
	require.NoError(t, err)
	require.NoError(t, f.translator.SetLanguage("vi"))

	f.clock.Advance(DefaultReplyDelay)
	msgs, _ := f.conversations.Messages("2")
	require.Len(t, msgs, 3)
	assert.Equal(t, "I received your message! 👍", msgs[2].Text)
}

func TestReplyGenerator(t *testing.T) {
	gen := &stubGenerator{text: "generated"}
	f := newFixture(t, gen)

	_, err := f.messages.Send(context.Background(), "1", "hello")
	require.NoError(t, err)
	f.clock.Advance(DefaultReplyDelay)

	msgs, _ := f.conversations.Messages("1")
	require.Len(t, msgs, 3)
	assert.Equal(t, "generated", msgs[2].Text)
	assert.Equal(t, 1, gen.calls)
}

func TestReplyGeneratorFallsBackToCanned(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	f := newFixture(t, gen)

	_, err := f.messages.Send(context.Background(), "1", "hello")
	require.NoError(t, err)
	f.clock.Advance(DefaultReplyDelay)

	msgs, _ := f.conversations.Messages("1")
	require.Len(t, msgs, 3)
	assert.Equal(t, f.translator.Lookup("vi", "botAutoReply", nil), msgs[2].Text)
}

func TestCloseCancelsEverything(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, "1", "a")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, "2", "b")
	require.NoError(t, err)

	f.messages.Close()
	assert.Equal(t, 0, f.messages.Pending())

	_, err = f.messages.Send(ctx, "1", "after close")
	require.NoError(t, err)
	assert.Equal(t, 0, f.messages.Pending())

	f.clock.Advance(DefaultReplyDelay)
	msgs, _ := f.conversations.Messages("1")
	assert.Len(t, msgs, 3)
}

// deletingPublisher removes a conversation as soon as the user's message
// lands in it, before the reply is scheduled.
type deletingPublisher struct {
	recorder
	conversations *ConversationService
}

func (p *deletingPublisher) Publish(evt model.Event) {
	p.recorder.Publish(evt)
	if evt.Type == model.EventMessageAppended && evt.Message != nil && evt.Message.IsMine {
		_, _ = p.conversations.Delete(evt.ConversationID)
	}
}

func TestDeleteBetweenAppendAndScheduleSchedulesNothing(t *testing.T) {
	clk := clock.Fake(epoch)
	pub := &deletingPublisher{}
	convs := NewConversationService(clk, pub, logger.NewNop())
	pub.conversations = convs
	convs.SeedDefaults()

	tr, err := i18n.New(i18n.Vietnamese)
	require.NoError(t, err)
	ms := NewMessageService(convs, clk, pub, tr, nil, DefaultReplyDelay, logger.NewNop())
	defer ms.Close()

	_, err = ms.Send(context.Background(), "1", "hello")
	require.NoError(t, err)

	assert.False(t, convs.Exists("1"))
	assert.False(t, ms.Typing("1"))
	assert.Equal(t, 0, ms.Pending())
	assert.Equal(t, 0, clk.Pending())
	assert.Equal(t, 0, pub.count(model.EventTypingStarted, "1"))

	clk.Advance(DefaultReplyDelay)
	assert.False(t, convs.Exists("1"))
	assertBijection(t, convs)
}
