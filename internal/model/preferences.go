package model

// Theme is the display theme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences are the two scalars kept in local device storage.
type Preferences struct {
	Theme    Theme  `json:"theme" yaml:"theme"`
	Language string `json:"language" yaml:"language"`
}

// UpdatePreferencesRequest changes one or both preferences.
type UpdatePreferencesRequest struct {
	Theme    *Theme  `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
}

// PreferencesResponse echoes the stored preferences with a localized notice.
type PreferencesResponse struct {
	Preferences
	Notice string `json:"notice,omitempty"`
}
