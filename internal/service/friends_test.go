package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendSearch(t *testing.T) {
	f := newFixture(t, nil)
	s := NewFriendService(f.conversations)

	assert.Equal(t, SuggestedFriends, s.Search(""))
	assert.Equal(t, []string{"Alice", "Charlie", "Linh"}, s.Search("LI"))
	assert.Empty(t, s.Search("zoe"))
}

func TestAddFriendCreatesConversation(t *testing.T) {
	f := newFixture(t, nil)
	s := NewFriendService(f.conversations)

	id, err := s.Add("bob")
	require.NoError(t, err)

	conv, err := f.conversations.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Bob", conv.Meta.Name)
	assert.Equal(t, 1, conv.Meta.Unread)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "Hi Bob!", conv.Messages[0].Text)
	assert.Equal(t, "Bob", conv.Messages[0].Sender)
	assert.False(t, conv.Messages[0].IsMine)
	assertBijection(t, f.conversations)
}

func TestAddUnknownFriend(t *testing.T) {
	f := newFixture(t, nil)
	s := NewFriendService(f.conversations)

	_, err := s.Add("Zoe")
	assert.ErrorIs(t, err, ErrUnknownFriend)
	assert.Len(t, f.conversations.IDs(), 2)
}
