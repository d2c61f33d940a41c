package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/chunk-runtime/module"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	err       error
	session   *session
	chunkPath string
	preload   []string
	result    string
	ids       []string
	visible   []string
	filter    textinput.Model
	selected  int
	loaded    bool
	state     browserState
}

type browserState int

const (
	stateBrowse browserState = iota
	stateShowResult
)

func newBrowserModel(s *session, chunkPath string, preload []string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter module ids"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	return &browserModel{
		session:   s,
		chunkPath: chunkPath,
		preload:   preload,
		filter:    ti,
		state:     stateBrowse,
	}
}

type chunksLoadedMsg struct {
	err error
	ids []string
}

type instantiatedMsg struct {
	err    error
	result string
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadChunks)
}

func (m *browserModel) loadChunks() tea.Msg {
	ctx := context.Background()
	rt := m.session.rt

	if err := rt.LoadChunk(ctx, m.chunkPath, module.RuntimeEntry(m.chunkPath)); err != nil {
		return chunksLoadedMsg{err: err}
	}
	for _, res := range m.session.preload(ctx, m.preload) {
		if _, err := res.Wait(ctx); err != nil {
			return chunksLoadedMsg{err: err}
		}
	}
	return chunksLoadedMsg{ids: rt.Factories().IDs()}
}

func (m *browserModel) instantiate() tea.Msg {
	if len(m.visible) == 0 {
		return instantiatedMsg{err: fmt.Errorf("no module selected")}
	}
	ctx := context.Background()
	id := m.visible[m.selected]

	mod, err := m.session.rt.GetOrInstantiateRuntimeModule(ctx, id, m.chunkPath)
	if err != nil {
		return instantiatedMsg{err: err}
	}
	if mod.Async() {
		if err := mod.Wait(ctx); err != nil {
			return instantiatedMsg{err: err}
		}
	}
	return instantiatedMsg{result: formatExports(mod.Exports())}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "up":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateBrowse:
				return m, m.instantiate
			case stateShowResult:
				m.state = stateBrowse
				m.result = ""
				m.err = nil
			}
			return m, nil

		case "esc":
			if m.state == stateShowResult {
				m.state = stateBrowse
				m.result = ""
				m.err = nil
				return m, nil
			}
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}

	case chunksLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ids = msg.ids
		m.applyFilter()
		return m, nil

	case instantiatedMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateBrowse {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, id := range m.ids {
		if q == "" || strings.Contains(strings.ToLower(id), q) {
			m.visible = append(m.visible, id)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) moduleState(id string) string {
	mod, ok := m.session.rt.Cache().Get(id)
	if !ok {
		return "pending"
	}
	return mod.State().String()
}

func (m *browserModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}

	if !m.loaded {
		return "Loading chunks..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Module Browser"))
	b.WriteString(" ")
	b.WriteString(m.chunkPath)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("  no matching modules"))
			b.WriteString("\n")
		}
		for i, id := range m.visible {
			line := idStyle.Render(id) + " " + stateStyle.Render("["+m.moduleState(id)+"]")
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + id + " [" + m.moduleState(id) + "]"))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • type to filter • enter instantiate • esc clear • ctrl+c quit"))

	case stateShowResult:
		id := ""
		if m.selected < len(m.visible) {
			id = m.visible[m.selected]
		}
		b.WriteString(fmt.Sprintf("Exports of %s:\n\n", idStyle.Render(id)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(s *session, chunkPath string, preload []string) error {
	p := tea.NewProgram(newBrowserModel(s, chunkPath, preload), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
