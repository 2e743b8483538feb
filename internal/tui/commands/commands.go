// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/persist"
	"github.com/javiermolinar/lorastack/internal/slot"
)

// StackLoadedMsg is sent when a stored stack has been read and parsed.
// Found is false when no stack with that name exists yet.
type StackLoadedMsg struct {
	Name     string
	Found    bool
	Snapshot persist.Snapshot
}

// StackSavedMsg is sent when the stack has been written to the repository.
type StackSavedMsg struct {
	Name      string
	SlotCount int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// LoadStack reads the named stack and parses its payload.
func LoadStack(repo slot.Repository, name string) tea.Cmd {
	return func() tea.Msg {
		st, err := repo.GetStack(context.Background(), name)
		if errors.Is(err, slot.ErrStackNotFound) {
			return StackLoadedMsg{Name: name}
		}
		if err != nil {
			return ErrMsg{Err: err}
		}

		snap, err := persist.Load(st.Payload)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading stack %q: %w", name, err)}
		}
		return StackLoadedMsg{Name: name, Found: true, Snapshot: snap}
	}
}

// SaveStack writes the snapshot under name.
func SaveStack(repo slot.Repository, name string, snap persist.Snapshot) tea.Cmd {
	return func() tea.Msg {
		payload, err := persist.Save(snap)
		if err != nil {
			return ErrMsg{Err: err}
		}

		st := &slot.StoredStack{
			Name:      name,
			Mode:      snap.Mode,
			SlotCount: len(snap.Records),
			Payload:   payload,
		}
		if err := repo.SaveStack(context.Background(), st); err != nil {
			return ErrMsg{Err: err}
		}
		return StackSavedMsg{Name: name, SlotCount: st.SlotCount}
	}
}

// CopyStack copies the snapshot's JSON to the system clipboard.
func CopyStack(snap persist.Snapshot) tea.Cmd {
	return func() tea.Msg {
		payload, err := persist.SaveIndent(snap)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := writeClipboard(string(payload)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied stack JSON to clipboard"}
	}
}
