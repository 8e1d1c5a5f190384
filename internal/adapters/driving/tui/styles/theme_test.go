package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.Running)
	assert.NotEmpty(t, theme.Error)
}

func TestDefaultTheme_StateColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	colours := map[lipgloss.Color]string{}
	for name, c := range map[string]lipgloss.Color{
		"running": theme.Running,
		"muted":   theme.Muted,
		"warning": theme.Warning,
		"error":   theme.Error,
	} {
		if other, dup := colours[c]; dup {
			t.Errorf("%s and %s share colour %s", name, other, c)
		}
		colours[c] = name
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Primary = lipgloss.Color("#FFFFFF")

	s := NewStyles(theme)

	assert.Equal(t, theme, s.Theme())
	assert.Equal(t, lipgloss.Color("#FFFFFF"), s.Title.GetForeground())
}

func TestStyles_Badges(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Running.GetBold())
	assert.Equal(t, DefaultTheme().Running, s.Running.GetForeground())
	assert.Equal(t, DefaultTheme().Error, s.Recording.GetForeground())
	assert.Equal(t, DefaultTheme().Warning, s.Frozen.GetForeground())
}

func TestStyles_CanRenderText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("serplot"), "serplot")
	assert.Contains(t, s.StatusBar.Render("ready"), "ready")
}
