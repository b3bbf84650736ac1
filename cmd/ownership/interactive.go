package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/ownership/ptr"
	"github.com/wippyai/ownership/resource"
)

const maxLogLines = 8

type playgroundState int

const (
	stateBrowse playgroundState = iota
	stateNaming
	stateDone
)

// eventLog keeps the most recent registry events for display.
type eventLog struct {
	lines []string
}

func (l *eventLog) OnResourceEvent(e resource.Event) {
	name := ""
	if u, ok := e.Value.(*User); ok && u != nil {
		name = u.Name
	}
	line := fmt.Sprintf("%-8s handle %d %s refs %d", e.Type, e.Handle, name, e.Refs)
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
}

type playgroundModel struct {
	err      error
	table    *resource.Table
	log      *eventLog
	handles  []*ptr.Shared[User]
	input    textinput.Model
	st       styles
	selected int
	state    playgroundState
}

func newPlaygroundModel() *playgroundModel {
	table := resource.NewTable()
	log := &eventLog{}
	table.Subscribe(log)

	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "new user: "
	ti.Width = 30

	return &playgroundModel{
		table: table,
		log:   log,
		input: ti,
		st:    newStyles(true),
		state: stateBrowse,
	}
}

func (m *playgroundModel) Init() tea.Cmd {
	return nil
}

func (m *playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateNaming {
		switch key.String() {
		case "enter":
			m.create(strings.TrimSpace(m.input.Value()))
			m.input.Reset()
			m.input.Blur()
			m.state = stateBrowse
			return m, nil
		case "esc":
			m.input.Reset()
			m.input.Blur()
			m.state = stateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.shutdown()
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.handles)-1 {
			m.selected++
		}

	case "n":
		m.state = stateNaming
		return m, m.input.Focus()

	case "c":
		if h := m.current(); h != nil {
			m.handles = append(m.handles, h.Clone())
		}

	case "a":
		// Point the selected handle at the allocation of the next one.
		if m.selected+1 < len(m.handles) {
			m.handles[m.selected].Assign(m.handles[m.selected+1])
		}

	case "d":
		if h := m.current(); h != nil {
			h.Release()
			m.handles = append(m.handles[:m.selected], m.handles[m.selected+1:]...)
			if m.selected >= len(m.handles) && m.selected > 0 {
				m.selected--
			}
		}
	}

	return m, nil
}

func (m *playgroundModel) current() *ptr.Shared[User] {
	if m.selected < 0 || m.selected >= len(m.handles) {
		return nil
	}
	return m.handles[m.selected]
}

func (m *playgroundModel) create(name string) {
	if name == "" {
		return
	}
	age := len(m.handles) + 18
	m.handles = append(m.handles, ptr.MakeShared(User{Name: name, Age: age}, ptr.WithRegistry(m.table)))
	m.selected = len(m.handles) - 1
}

// shutdown releases every handle and checks the registry for leaks.
func (m *playgroundModel) shutdown() {
	for _, h := range m.handles {
		h.Release()
	}
	m.handles = nil
	m.err = m.table.Close()
	m.state = stateDone
}

func (m *playgroundModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("Ownership Playground"))
	b.WriteString(" ")
	b.WriteString(strconv.Itoa(m.table.Len()))
	b.WriteString(" live allocation(s)\n\n")

	if m.state == stateDone {
		if m.err != nil {
			b.WriteString(m.st.failure.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.st.value.Render("all allocations released"))
		}
		b.WriteString("\n")
		return b.String()
	}

	if len(m.handles) == 0 {
		b.WriteString("No handles. Press n to create a shared user.\n")
	}
	for i, h := range m.handles {
		row := m.formatHandle(i, h)
		if i == m.selected {
			b.WriteString(m.st.selected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if m.state == stateNaming {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range m.log.lines {
		b.WriteString(m.st.event.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.st.help.Render("↑/↓ select • n new • c clone • a assign next • d release • q quit"))

	return b.String()
}

func (m *playgroundModel) formatHandle(i int, h *ptr.Shared[User]) string {
	if h.Empty() {
		return fmt.Sprintf("#%d (empty)", i)
	}
	u := h.Deref()
	return fmt.Sprintf("#%d %s age %d  count %d",
		i, m.st.value.Render(u.Name), u.Age, h.UseCount())
}

func runInteractive() error {
	m := newPlaygroundModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
