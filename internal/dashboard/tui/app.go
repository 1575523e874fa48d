// Package tui is the terminal front end of the dashboard.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the dashboard model and catches panics raised while updating or
// rendering it. After a fault the only way forward is a full reload.
type App struct {
	build func() tea.Model
	inner tea.Model
	fault string
}

func NewApp(build func() tea.Model) *App {
	return &App{build: build, inner: build()}
}

func (a *App) Init() tea.Cmd { return a.inner.Init() }

func (a *App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if a.fault != "" {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "r":
				a.fault = ""
				a.inner = a.build()
				return a, a.inner.Init()
			case "q", "ctrl+c":
				return a, tea.Quit
			}
		}
		return a, nil
	}

	defer func() {
		if r := recover(); r != nil {
			a.fault = fmt.Sprint(r)
			model, cmd = a, nil
		}
	}()
	a.inner, cmd = a.inner.Update(msg)
	return a, cmd
}

func (a *App) View() (out string) {
	if a.fault != "" {
		return a.faultView()
	}
	defer func() {
		if r := recover(); r != nil {
			a.fault = fmt.Sprint(r)
			out = a.faultView()
		}
	}()
	return a.inner.View()
}

// Faulted reports whether the app is waiting for a reload.
func (a *App) Faulted() bool { return a.fault != "" }

func (a *App) faultView() string {
	return panelString(
		errorStyle.Render(symFail+" Something went wrong") + "\n\n" +
			mutedStyle.Render(a.fault) + "\n\n" +
			helpStyle.Render("r reload • q quit"))
}
