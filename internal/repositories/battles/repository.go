// Package battles provides the storage interface for battle state
package battles

import (
	"context"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
)

// Repository defines the storage interface for battles
type Repository interface {
	// Save stores a battle, overwriting any previous state with the same ID
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves a battle by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Delete removes a battle
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// Clear removes every stored battle
	Clear(ctx context.Context) error
}

// SaveInput defines the request for saving a battle
type SaveInput struct {
	Battle *entities.BattleState
}

// SaveOutput defines the response for saving a battle
type SaveOutput struct {
	Success bool
}

// GetInput defines the request for retrieving a battle
type GetInput struct {
	BattleID string
}

// GetOutput defines the response for retrieving a battle
type GetOutput struct {
	Battle *entities.BattleState
}

// DeleteInput defines the request for deleting a battle
type DeleteInput struct {
	BattleID string
}

// DeleteOutput defines the response for deleting a battle
type DeleteOutput struct {
	Success bool
}
