package battles

import (
	"context"
	"sync"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage.
// Sessions never expire.
type InMemoryRepository struct {
	mu    sync.Mutex
	clock clock.Clock
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory(clk clock.Clock) *InMemoryRepository {
	if clk == nil {
		clk = clock.New()
	}
	return &InMemoryRepository{
		clock: clk,
		store: make(map[string][]byte),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new session
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	data, err := encodeSession(input.Session)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Session.ID]; exists {
		return nil, errors.AlreadyExists("battle already exists").WithMeta("battle_id", input.Session.ID)
	}
	r.store[input.Session.ID] = data

	return &CreateOutput{Session: input.Session}, nil
}

// Get retrieves a session by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	r.mu.Lock()
	data, exists := r.store[input.BattleID]
	r.mu.Unlock()
	if !exists {
		return nil, notFound(input.BattleID)
	}

	session, err := decodeSession(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Session: session}, nil
}

// Apply holds the lock for the whole read-modify-write
func (r *InMemoryRepository) Apply(_ context.Context, input *ApplyInput) (*ApplyOutput, error) {
	if err := validateApply(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.store[input.BattleID]
	if !exists {
		return nil, notFound(input.BattleID)
	}

	session, err := decodeSession(data)
	if err != nil {
		return nil, err
	}
	if err := input.Mutate(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = r.clock.Now()

	updated, err := encodeSession(session)
	if err != nil {
		return nil, err
	}
	r.store[input.BattleID] = updated

	return &ApplyOutput{Session: session}, nil
}

// Delete removes a session
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.BattleID]; !exists {
		return nil, notFound(input.BattleID)
	}
	delete(r.store, input.BattleID)

	return &DeleteOutput{}, nil
}
