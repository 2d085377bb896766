package dragons

import (
	"context"
	"sync"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

const (
	errDragonNil     = "dragon cannot be nil"
	errDragonIDEmpty = "dragon ID cannot be empty"
	errPoolInvalid   = "pool must be roster or opponents"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.Dragon
	order map[entities.Pool][]string
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.Dragon),
		order: make(map[entities.Pool][]string),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Create appends a dragon to its pool
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Dragon.ID]; exists {
		return nil, errors.AlreadyExistsf("dragon with ID %s already exists", input.Dragon.ID)
	}

	r.store[input.Dragon.ID] = input.Dragon.Clone()
	r.order[input.Dragon.Pool] = append(r.order[input.Dragon.Pool], input.Dragon.ID)

	return &CreateOutput{Dragon: input.Dragon.Clone()}, nil
}

// Get retrieves a dragon by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDragonIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("dragon with ID %s not found", input.ID).WithMeta("dragon_id", input.ID)
	}

	return &GetOutput{Dragon: d.Clone()}, nil
}

// List returns the dragons of a pool in insertion order
func (r *InMemoryRepository) List(_ context.Context, input ListInput) (*ListOutput, error) {
	if !validPool(input.Pool) {
		return nil, errors.InvalidArgument(errPoolInvalid)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order[input.Pool]
	out := make([]*entities.Dragon, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.store[id].Clone())
	}

	return &ListOutput{Dragons: out}, nil
}

// Update overwrites an existing dragon
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.store[input.Dragon.ID]
	if !exists {
		return nil, errors.NotFoundf("dragon with ID %s not found", input.Dragon.ID).
			WithMeta("dragon_id", input.Dragon.ID)
	}
	if existing.Pool != input.Dragon.Pool {
		return nil, errors.InvalidArgumentf("dragon %s cannot move from %s to %s",
			input.Dragon.ID, existing.Pool, input.Dragon.Pool)
	}

	r.store[input.Dragon.ID] = input.Dragon.Clone()

	return &UpdateOutput{Dragon: input.Dragon.Clone()}, nil
}

// Replace swaps a dragon for a new record in the same position
func (r *InMemoryRepository) Replace(_ context.Context, input ReplaceInput) (*ReplaceOutput, error) {
	if input.PreviousID == "" {
		return nil, errors.InvalidArgument(errDragonIDEmpty)
	}
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.store[input.PreviousID]
	if !exists {
		return nil, errors.NotFoundf("dragon with ID %s not found", input.PreviousID).
			WithMeta("dragon_id", input.PreviousID)
	}
	if input.Dragon.ID != input.PreviousID {
		if _, taken := r.store[input.Dragon.ID]; taken {
			return nil, errors.AlreadyExistsf("dragon with ID %s already exists", input.Dragon.ID)
		}
	}

	ids := r.order[previous.Pool]
	for i, id := range ids {
		if id == input.PreviousID {
			ids[i] = input.Dragon.ID
			break
		}
	}

	replacement := input.Dragon.Clone()
	replacement.Pool = previous.Pool
	delete(r.store, input.PreviousID)
	r.store[replacement.ID] = replacement

	return &ReplaceOutput{Dragon: replacement.Clone()}, nil
}

// Reset drops a pool and stores the given dragons in order
func (r *InMemoryRepository) Reset(_ context.Context, input ResetInput) (*ResetOutput, error) {
	if !validPool(input.Pool) {
		return nil, errors.InvalidArgument(errPoolInvalid)
	}
	for _, d := range input.Dragons {
		if err := validateDragon(d); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order[input.Pool] {
		delete(r.store, id)
	}

	ids := make([]string, 0, len(input.Dragons))
	for _, d := range input.Dragons {
		stored := d.Clone()
		stored.Pool = input.Pool
		r.store[stored.ID] = stored
		ids = append(ids, stored.ID)
	}
	r.order[input.Pool] = ids

	return &ResetOutput{Count: len(ids)}, nil
}

func validateDragon(d *entities.Dragon) error {
	if d == nil {
		return errors.InvalidArgument(errDragonNil)
	}
	if d.ID == "" {
		return errors.InvalidArgument(errDragonIDEmpty)
	}
	if !validPool(d.Pool) {
		return errors.InvalidArgument(errPoolInvalid)
	}
	return nil
}

func validPool(p entities.Pool) bool {
	return p == entities.PoolRoster || p == entities.PoolOpponents
}
