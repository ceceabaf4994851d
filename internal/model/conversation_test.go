package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterGroups, ParseFilter("Groups"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("starred"))
}

func TestFilterMatches(t *testing.T) {
	a := ConversationSummary{ID: "a", Name: "Alice", Unread: 2}
	c := ConversationSummary{ID: "c", Name: "Group C"}

	assert.True(t, FilterAll.Matches(a, "ALI"))
	assert.False(t, FilterAll.Matches(a, "bob"))
	assert.True(t, FilterUnread.Matches(a, ""))
	assert.False(t, FilterUnread.Matches(c, ""))
	assert.True(t, FilterGroups.Matches(c, "c"))
	assert.False(t, FilterGroups.Matches(a, ""))
}

func TestProfileUpdateApply(t *testing.T) {
	p := UserProfile{ID: "u1", Username: "thien_tdk", Bio: "old", Phone: "1"}
	bio := "new"
	ProfileUpdate{Bio: &bio}.Apply(&p)

	assert.Equal(t, "new", p.Bio)
	assert.Equal(t, "1", p.Phone)
	assert.Equal(t, "thien_tdk", p.Username)
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.True(t, ThemeLight.Valid())
	assert.False(t, Theme("sepia").Valid())
}
