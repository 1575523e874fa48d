package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicky struct {
	panicOnUpdate bool
	panicOnView   bool
}

func (p panicky) Init() tea.Cmd { return nil }

func (p panicky) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.panicOnUpdate {
		panic("update exploded")
	}
	return p, nil
}

func (p panicky) View() string {
	if p.panicOnView {
		panic("view exploded")
	}
	return "fine"
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_RecoversFromUpdatePanic(t *testing.T) {
	builds := 0
	app := NewApp(func() tea.Model {
		builds++
		return panicky{panicOnUpdate: builds == 1}
	})

	_, cmd := app.Update(key("x"))
	assert.Nil(t, cmd)
	require.True(t, app.Faulted())
	assert.Contains(t, app.View(), "update exploded")

	// other keys are ignored while faulted
	app.Update(key("x"))
	assert.Equal(t, 1, builds)

	app.Update(key("r"))
	assert.False(t, app.Faulted())
	assert.Equal(t, 2, builds)
	assert.Equal(t, "fine", app.View())
}

func TestApp_RecoversFromViewPanic(t *testing.T) {
	app := NewApp(func() tea.Model { return panicky{panicOnView: true} })

	out := app.View()

	assert.True(t, strings.Contains(out, "view exploded"))
	assert.True(t, app.Faulted())
}

func TestApp_QuitWhileFaulted(t *testing.T) {
	app := NewApp(func() tea.Model { return panicky{panicOnUpdate: true} })
	app.Update(key("x"))

	_, cmd := app.Update(key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
