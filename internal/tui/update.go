package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.SetWidth(float64(m.width))
		return m, nil

	case commands.StackLoadedMsg:
		m.loading = false
		if !msg.Found {
			m.saved = m.store.List()
			cmd := m.setStatus(m.withFirstRun(fmt.Sprintf("New stack %q", msg.Name)))
			return m, cmd
		}
		if err := msg.Snapshot.Install(m.store); err != nil {
			LogError("install", err)
			cmd := m.setError(err)
			return m, cmd
		}
		m.saved = m.store.List()
		m.clampCursor()
		cmd := m.setStatus(m.withFirstRun(fmt.Sprintf("Loaded %q (%d slots)", msg.Name, m.store.Len())))
		return m, cmd

	case commands.StackSavedMsg:
		if m.pending != nil {
			m.saved = m.pending
			m.pending = nil
		}
		m.quitArmed = false
		cmd := m.setStatus(fmt.Sprintf("Saved %q (%d slots)", msg.Name, msg.SlotCount))
		return m, cmd

	case commands.ErrMsg:
		m.loading = false
		m.pending = nil
		LogError("command", msg.Err)
		cmd := m.setError(msg.Err)
		return m, cmd

	case commands.StatusMsgCmd:
		cmd := m.setStatus(msg.Msg)
		return m, cmd

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	if m.host.kind == popupEditor {
		var cmd tea.Cmd
		m.host.input, cmd = m.host.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setStatus shows a temporary status message.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.err = nil
	m.statusTime = time.Now().Add(3 * time.Second)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// withFirstRun prefixes msg with the startup file creation notice, once.
func (m *Model) withFirstRun(msg string) string {
	notice := m.firstRun.Message()
	if notice == "" {
		return msg
	}
	m.firstRun = FirstRun{}
	return notice + " · " + msg
}

// setError shows an error in the status line.
func (m *Model) setError(err error) tea.Cmd {
	m.err = err
	m.statusMsg = fmt.Sprintf("Error: %v", err)
	m.statusTime = time.Now().Add(5 * time.Second)
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// clampCursor keeps the cursor on a slot or the add row.
func (m *Model) clampCursor() {
	if m.cursor > m.store.Len() {
		m.cursor = m.store.Len()
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
