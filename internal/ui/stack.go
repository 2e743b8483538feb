package ui

import (
	"context"
	"fmt"

	"github.com/javiermolinar/lorastack/internal/persist"
	"github.com/javiermolinar/lorastack/internal/slot"
)

// loadStack reads a stored stack and parses its payload.
func loadStack(ctx context.Context, repo slot.Repository, name string) (*slot.StoredStack, persist.Snapshot, error) {
	st, err := repo.GetStack(ctx, name)
	if err != nil {
		return nil, persist.Snapshot{}, fmt.Errorf("reading stack %q: %w", name, err)
	}
	snap, err := persist.Load(st.Payload)
	if err != nil {
		return nil, persist.Snapshot{}, fmt.Errorf("parsing stack %q: %w", name, err)
	}
	return st, snap, nil
}

// saveStack stores snap under name in the Structured shape.
func saveStack(ctx context.Context, repo slot.Repository, name string, snap persist.Snapshot) error {
	payload, err := persist.Save(snap)
	if err != nil {
		return err
	}
	st := &slot.StoredStack{
		Name:      name,
		Mode:      snap.Mode,
		SlotCount: len(snap.Records),
		Payload:   payload,
	}
	if err := repo.SaveStack(ctx, st); err != nil {
		return fmt.Errorf("saving stack %q: %w", name, err)
	}
	return nil
}
