package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/exampleapp/example-api/internal/dashboard"
)

type tab int

const (
	tabPublic tab = iota
	tabPrivate
	tabItems
	tabCache
)

var tabNames = []string{"Public", "Private", "Items", "Cache"}

// Deps are shared by every model built for a session.
type Deps struct {
	Client  *dashboard.Client
	Timeout time.Duration
}

// doneMsg reports that a hook call finished; the hooks hold the result.
type doneMsg struct{ err error }

// Model is the tabbed dashboard.
type Model struct {
	timeout time.Duration

	public  *dashboard.HealthHook
	private *dashboard.HealthHook
	items   *dashboard.ItemsHook
	cache   *dashboard.CacheHook
	palette *dashboard.PodPalette

	active tab
	width  int

	cursor int

	// item form; editID is zero when creating
	itemForm   bool
	editID     int64
	itemInputs []textinput.Model
	itemFocus  int
	formErr    string

	// cache form: key, value, ttl
	cacheForm   bool
	cacheInputs []textinput.Model
	cacheFocus  int
}

func NewModel(deps Deps) Model {
	return Model{
		timeout: deps.Timeout,
		public:  dashboard.NewHealthHook(deps.Client),
		private: dashboard.NewHealthHook(deps.Client),
		items:   dashboard.NewItemsHook(deps.Client),
		cache:   dashboard.NewCacheHook(deps.Client),
		palette: dashboard.NewPodPalette(),
		width:   80,
		itemInputs: []textinput.Model{
			newInput("Name", 255),
			newInput("Description (optional)", 5000),
		},
		cacheInputs: []textinput.Model{
			newInput("Key", 200),
			newInput("Value", 1000),
			newInput(fmt.Sprintf("TTL seconds (default %d)", dashboard.DefaultTTL), 10),
		},
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		m.public.CheckPublic(ctx)
		return nil
	})
}

// run executes fn on a command goroutine. A zero timeout leaves the call
// unbounded.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return doneMsg{err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case doneMsg:
		if n := len(m.items.State().Items); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil
	case tea.KeyMsg:
		if m.itemForm {
			return m.updateItemForm(msg)
		}
		if m.cacheForm {
			return m.updateCacheForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "right", "l":
		m.active = (m.active + 1) % tab(len(tabNames))
		return m, m.onEnterTab()
	case "shift+tab", "left", "h":
		m.active = (m.active + tab(len(tabNames)) - 1) % tab(len(tabNames))
		return m, m.onEnterTab()
	case "1", "2", "3", "4":
		m.active = tab(k.String()[0] - '1')
		return m, m.onEnterTab()
	}

	switch m.active {
	case tabPublic, tabPrivate:
		if k.String() == "enter" || k.String() == "c" {
			return m, m.checkActive()
		}
	case tabItems:
		return m.updateItemsTab(k)
	case tabCache:
		return m.updateCacheTab(k)
	}
	return m, nil
}

// onEnterTab loads data the first time a tab is shown.
func (m Model) onEnterTab() tea.Cmd {
	switch m.active {
	case tabPublic, tabPrivate:
		if len(m.hookFor(m.active).Results()) == 0 {
			return m.checkActive()
		}
	case tabItems:
		return m.run(m.items.Fetch)
	}
	return nil
}

func (m Model) hookFor(t tab) *dashboard.HealthHook {
	if t == tabPrivate {
		return m.private
	}
	return m.public
}

func (m Model) checkActive() tea.Cmd {
	private := m.active == tabPrivate
	hook := m.hookFor(m.active)
	return m.run(func(ctx context.Context) error {
		if private {
			hook.CheckPrivate(ctx)
		} else {
			hook.CheckPublic(ctx)
		}
		return nil
	})
}

func (m Model) updateItemsTab(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.items.State().Items
	switch k.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "f":
		return m, m.run(m.items.Fetch)
	case "a":
		m.editID = 0
		return m.openItemForm("", "")
	case "e":
		if m.cursor < len(items) {
			it := items[m.cursor]
			m.editID = it.ID
			desc := ""
			if it.Description != nil {
				desc = *it.Description
			}
			return m.openItemForm(it.Name, desc)
		}
	case "d":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			return m, m.run(func(ctx context.Context) error { return m.items.Delete(ctx, id) })
		}
	}
	return m, nil
}

func (m Model) openItemForm(name, desc string) (tea.Model, tea.Cmd) {
	m.itemForm = true
	m.formErr = ""
	m.itemInputs[0].SetValue(name)
	m.itemInputs[0].CursorEnd()
	m.itemInputs[1].SetValue(desc)
	m.itemInputs[1].CursorEnd()
	m.itemFocus = 0
	return m, focusInput(m.itemInputs, 0)
}

// focusInput moves focus to index i and blurs the rest.
func focusInput(inputs []textinput.Model, i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range inputs {
		if j == i {
			cmd = inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	return cmd
}

func (m Model) updateItemForm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.itemForm = false
		return m, nil
	case "tab", "shift+tab":
		m.itemFocus = (m.itemFocus + 1) % len(m.itemInputs)
		return m, focusInput(m.itemInputs, m.itemFocus)
	case "enter":
		name := strings.TrimSpace(m.itemInputs[0].Value())
		if name == "" {
			m.formErr = "Name is required"
			return m, nil
		}
		var desc *string
		if d := m.itemInputs[1].Value(); d != "" {
			desc = &d
		}
		m.itemForm = false
		id := m.editID
		if id == 0 {
			return m, m.run(func(ctx context.Context) error {
				_, err := m.items.Create(ctx, name, desc)
				return err
			})
		}
		return m, m.run(func(ctx context.Context) error {
			_, err := m.items.Update(ctx, id, name, desc)
			return err
		})
	}
	var cmd tea.Cmd
	m.itemInputs[m.itemFocus], cmd = m.itemInputs[m.itemFocus].Update(k)
	return m, cmd
}

func (m Model) updateCacheTab(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := strings.TrimSpace(m.cacheInputs[0].Value())
	switch k.String() {
	case "i", "enter":
		m.cacheForm = true
		return m, focusInput(m.cacheInputs, m.cacheFocus)
	case "p":
		return m, m.run(func(ctx context.Context) error { _, err := m.cache.Pod(ctx); return err })
	case "g":
		return m, m.run(func(ctx context.Context) error { _, err := m.cache.Get(ctx, key); return err })
	case "x":
		return m, m.run(func(ctx context.Context) error { _, err := m.cache.Delete(ctx, key); return err })
	case "k":
		return m, m.run(func(ctx context.Context) error { _, err := m.cache.Keys(ctx); return err })
	case "c":
		m.cache.Clear()
	}
	return m, nil
}

func (m Model) updateCacheForm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.cacheForm = false
		m.cacheInputs[m.cacheFocus].Blur()
		return m, nil
	case "tab":
		m.cacheFocus = (m.cacheFocus + 1) % len(m.cacheInputs)
		return m, focusInput(m.cacheInputs, m.cacheFocus)
	case "shift+tab":
		n := len(m.cacheInputs)
		m.cacheFocus = (m.cacheFocus + n - 1) % n
		return m, focusInput(m.cacheInputs, m.cacheFocus)
	case "enter":
		key := m.cacheInputs[0].Value()
		value := m.cacheInputs[1].Value()
		ttl, _ := strconv.ParseInt(strings.TrimSpace(m.cacheInputs[2].Value()), 10, 64)
		m.cacheForm = false
		m.cacheInputs[m.cacheFocus].Blur()
		return m, m.run(func(ctx context.Context) error {
			_, err := m.cache.Set(ctx, key, value, ttl)
			return err
		})
	}
	var cmd tea.Cmd
	m.cacheInputs[m.cacheFocus], cmd = m.cacheInputs[m.cacheFocus].Update(k)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("API Dashboard") + "  " + renderTabs(tabNames, int(m.active)) + "\n\n")

	switch m.active {
	case tabPublic, tabPrivate:
		b.WriteString(m.viewHealth(m.hookFor(m.active)))
	case tabItems:
		b.WriteString(m.viewItems())
	case tabCache:
		b.WriteString(m.viewCache())
	}

	b.WriteString("\n" + helpStyle.Render(m.help()))
	return panelString(b.String())
}

func (m Model) help() string {
	switch {
	case m.itemForm, m.cacheForm:
		return "tab next field • enter submit • esc cancel"
	case m.active == tabItems:
		return "↑/↓ move • f refresh • a add • e edit • d delete • tab switch • q quit"
	case m.active == tabCache:
		return "i edit/set • p pod • g get • x delete • k keys • c clear log • tab switch • q quit"
	default:
		return "enter check • tab switch • q quit"
	}
}

func (m Model) viewHealth(h *dashboard.HealthHook) string {
	if h.Loading() {
		return pendingStyle.Render("Checking…") + "\n"
	}
	results := h.Results()
	if len(results) == 0 {
		return mutedStyle.Render("No results yet. Press enter to check.") + "\n"
	}
	var b strings.Builder
	for _, r := range results {
		badge := successStyle.Render(fmt.Sprintf("%s %d", symOK, r.Status))
		if !r.OK() {
			badge = errorStyle.Render(symFail + " " + statusLabel(r.Status))
		}
		fmt.Fprintf(&b, "%s %s %s\n", badge, accentStyle.Render(r.Endpoint),
			mutedStyle.Render(r.ResponseTime.Round(time.Millisecond).String()))
		if r.OK() {
			b.WriteString("   " + truncate(compactJSON(r.Data), m.width-8) + "\n")
		} else {
			b.WriteString("   " + errorStyle.Render(truncate(r.Error, m.width-8)) + "\n")
		}
	}
	return b.String()
}

func statusLabel(status int) string {
	if status == 0 {
		return "ERR"
	}
	return strconv.Itoa(status)
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func (m Model) viewItems() string {
	st := m.items.State()
	var b strings.Builder
	if st.Loading {
		b.WriteString(pendingStyle.Render("Loading…") + "\n")
	}
	if st.Error != "" {
		b.WriteString(errorStyle.Render(st.Error) + "\n")
	}
	if len(st.Items) == 0 && !st.Loading {
		b.WriteString(mutedStyle.Render("No items.") + "\n")
	}
	for i, it := range st.Items {
		line := truncate(fmt.Sprintf("#%d %s", it.ID, it.Name), m.width-6)
		if it.Description != nil {
			line += mutedStyle.Render(" · " + truncate(*it.Description, max(m.width-8-len([]rune(line)), 1)))
		}
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + line + "\n")
	}
	if m.itemForm {
		title := "Add item"
		if m.editID != 0 {
			title = fmt.Sprintf("Edit item #%d", m.editID)
		}
		if m.formErr != "" {
			title += "  " + errorStyle.Render(m.formErr)
		}
		b.WriteString("\n" + panelString(title+"\n"+m.itemInputs[0].View()+"\n"+m.itemInputs[1].View()) + "\n")
	}
	return b.String()
}

func (m Model) viewCache() string {
	var b strings.Builder
	for _, in := range m.cacheInputs {
		b.WriteString(in.View() + "\n")
	}
	if m.cache.Loading() {
		b.WriteString(pendingStyle.Render("Working…") + "\n")
	}
	b.WriteString("\n")

	log := m.cache.Log()
	if len(log) == 0 {
		b.WriteString(mutedStyle.Render("No requests yet.") + "\n")
	}
	for _, e := range log {
		pod := podStyle(m.palette.Color(e.PodName)).Render(e.PodName)
		line := fmt.Sprintf("#%d %-6s %s", e.ID, e.Action, pod)
		if e.Key != "" {
			line += " " + accentStyle.Render(e.Key)
		}
		switch {
		case e.Error != "":
			line += " " + errorStyle.Render(e.Error)
		case e.Value != nil:
			line += " = " + *e.Value
		case e.Action == dashboard.ActionGet:
			line += mutedStyle.Render(" (miss)")
		}
		if e.TTL != nil {
			line += mutedStyle.Render(fmt.Sprintf(" ttl=%ds", *e.TTL))
		}
		line += " " + mutedStyle.Render(e.ResponseTime.Round(time.Millisecond).String())
		b.WriteString(line + "\n")
	}
	return b.String()
}
