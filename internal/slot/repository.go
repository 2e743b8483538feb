package slot

import (
	"context"
	"errors"
	"time"
)

// ErrStackNotFound is returned when no stack with the requested name exists.
var ErrStackNotFound = errors.New("stack not found")

// StoredStack is a named, serialized stack as kept by a Repository.
type StoredStack struct {
	Name      string
	Mode      Mode
	SlotCount int
	Payload   []byte // Structured JSON document
	UpdatedAt time.Time
}

// Repository defines the storage interface for named stacks.
type Repository interface {
	// SaveStack inserts or replaces the stack with the same name.
	SaveStack(ctx context.Context, stack *StoredStack) error

	// GetStack retrieves a stack by name.
	// Returns an error wrapping ErrStackNotFound when no stack exists.
	GetStack(ctx context.Context, name string) (*StoredStack, error)

	// ListStacks returns all stacks ordered by name.
	ListStacks(ctx context.Context) ([]*StoredStack, error)

	// DeleteStack removes a stack by name.
	// Returns an error wrapping ErrStackNotFound when no stack exists.
	DeleteStack(ctx context.Context, name string) error

	// Close releases any resources held by the repository.
	Close() error
}
