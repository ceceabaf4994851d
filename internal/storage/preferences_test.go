package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enet-chat/chat-server/internal/model"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "none.yaml"))
	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, model.Preferences{}, prefs)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	s := NewFileStore(path)

	require.NoError(t, s.Save(model.Preferences{Theme: model.ThemeLight, Language: "en"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: light")

	prefs, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, prefs.Theme)
	assert.Equal(t, "en", prefs.Language)
}

func TestFileStoreDropsUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: sepia\nlanguage: vi\n"), 0o644))

	prefs, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, model.Theme(""), prefs.Theme)
	assert.Equal(t, "vi", prefs.Language)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(model.Preferences{Theme: model.ThemeDark})
	require.NoError(t, s.Save(model.Preferences{Theme: model.ThemeLight}))

	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, prefs.Theme)
	assert.Equal(t, 1, s.Saves())
}
