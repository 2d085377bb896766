// Package dragons provides the storage interface for dragon records
package dragons

//go:generate mockgen -destination=mock/mock_repository.go -package=dragonsmock github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons Repository

import (
	"context"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
)

// Repository stores dragons for both the player roster and the opponent pool.
// Records are stored and returned as copies; callers replace a record by
// writing a new version of it. Ids are unique across pools.
type Repository interface {
	// Create appends a dragon to the end of its pool
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a dragon with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a dragon by ID
	// Returns errors.NotFound if the dragon doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns the dragons of a pool in insertion order
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Update overwrites an existing dragon, keeping its position
	// Returns errors.NotFound if the dragon doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Replace swaps the dragon stored under PreviousID for a new record that
	// may carry a different ID. The new record takes the old one's position.
	// Returns errors.NotFound if PreviousID doesn't exist
	// Returns errors.AlreadyExists if the new ID is taken by another dragon
	Replace(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error)

	// Reset drops every dragon in a pool and stores the given ones in order
	Reset(ctx context.Context, input ResetInput) (*ResetOutput, error)
}

// CreateInput defines the input for creating a dragon
type CreateInput struct {
	Dragon *entities.Dragon
}

// CreateOutput defines the output for creating a dragon
type CreateOutput struct {
	Dragon *entities.Dragon
}

// GetInput defines the input for getting a dragon
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a dragon
type GetOutput struct {
	Dragon *entities.Dragon
}

// ListInput defines the input for listing a pool
type ListInput struct {
	Pool entities.Pool
}

// ListOutput defines the output for listing a pool
type ListOutput struct {
	Dragons []*entities.Dragon
}

// UpdateInput defines the input for updating a dragon
type UpdateInput struct {
	Dragon *entities.Dragon
}

// UpdateOutput defines the output for updating a dragon
type UpdateOutput struct {
	Dragon *entities.Dragon
}

// ReplaceInput defines the input for replacing a dragon
type ReplaceInput struct {
	PreviousID string
	Dragon     *entities.Dragon
}

// ReplaceOutput defines the output for replacing a dragon
type ReplaceOutput struct {
	Dragon *entities.Dragon
}

// ResetInput defines the input for reseeding a pool
type ResetInput struct {
	Pool    entities.Pool
	Dragons []*entities.Dragon
}

// ResetOutput defines the output for reseeding a pool
type ResetOutput struct {
	Count int
}
