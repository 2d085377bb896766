// Package players provides the storage interface for the session player
package players

//go:generate mockgen -destination=mock/mock_repository.go -package=playersmock github.com/KirkDiggler/dragon-keeper/internal/repositories/players Repository

import (
	"context"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
)

// Repository stores player records
type Repository interface {
	// Get retrieves a player by ID
	// Returns errors.NotFound if the player doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save creates or overwrites a player
	// Returns errors.InvalidArgument for validation failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// GetInput defines the input for getting a player
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a player
type GetOutput struct {
	Player *entities.Player
}

// SaveInput defines the input for saving a player
type SaveInput struct {
	Player *entities.Player
}

// SaveOutput defines the output for saving a player
type SaveOutput struct {
	Player *entities.Player
}
