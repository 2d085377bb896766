package players

import (
	"context"
	"sync"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

const (
	errPlayerNil     = "player cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Player
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.Player),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a player by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("player with ID %s not found", input.ID).WithMeta("player_id", input.ID)
	}

	return &GetOutput{Player: p.Clone()}, nil
}

// Save creates or overwrites a player
func (r *InMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if err := validatePlayer(input.Player); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Player.ID] = input.Player.Clone()

	return &SaveOutput{Player: input.Player.Clone()}, nil
}

func validatePlayer(p *entities.Player) error {
	if p == nil {
		return errors.InvalidArgument(errPlayerNil)
	}
	if p.ID == "" {
		return errors.InvalidArgument(errPlayerIDEmpty)
	}
	return nil
}
