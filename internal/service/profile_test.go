package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/logger"
)

func strPtr(s string) *string { return &s }

func TestProfileDefaults(t *testing.T) {
	s := NewProfileService(DefaultProfile(), nil, logger.NewNop())

	p, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "thien_tdk", p.Username)
	assert.Equal(t, "", p.FullName)
	assert.Equal(t, "2023-01-15", p.JoinedDate)
}

func TestProfileUpdateMerges(t *testing.T) {
	events := &recorder{}
	s := NewProfileService(DefaultProfile(), events, logger.NewNop())

	p, err := s.Update(model.ProfileUpdate{FullName: strPtr("Thiện Trần"), Bio: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Thiện Trần", p.FullName)
	assert.Equal(t, "", p.Bio)
	assert.Equal(t, "thien@example.com", p.Email)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, []model.EventType{model.EventProfileUpdated}, events.types())
}

func TestLogoutAndLogin(t *testing.T) {
	events := &recorder{}
	s := NewProfileService(DefaultProfile(), events, logger.NewNop())

	assert.True(t, s.Logout())
	assert.False(t, s.LoggedIn())
	assert.False(t, s.Logout())

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoCurrentUser)
	_, err = s.Update(model.ProfileUpdate{Bio: strPtr("x")})
	assert.ErrorIs(t, err, ErrNoCurrentUser)

	p := s.Login()
	assert.Equal(t, "thien_tdk", p.Username)
	assert.True(t, s.LoggedIn())
	assert.Equal(t, []model.EventType{model.EventLoggedOut}, events.types())
}
