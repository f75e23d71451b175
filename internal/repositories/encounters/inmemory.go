package encounters

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Save stores an encounter
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal encounter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Encounter.ID]; exists {
		return nil, errors.AlreadyExists("encounter already exists").WithMeta("encounter_id", input.Encounter.ID)
	}
	r.store[input.Encounter.ID] = data

	return &SaveOutput{Encounter: input.Encounter}, nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	data, exists := r.store[input.EncounterID]
	r.mu.RUnlock()
	if !exists {
		return nil, errors.NotFound("encounter not found").WithMeta("encounter_id", input.EncounterID)
	}

	// decode a fresh copy so callers cannot mutate stored state
	encounter, err := decodeEncounter(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

// List returns stored encounters, newest first
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = clampLimit(input.Limit)
	}

	r.mu.RLock()
	all := make([]*entities.Encounter, 0, len(r.store))
	for _, data := range r.store {
		encounter, err := decodeEncounter(data)
		if err != nil {
			r.mu.RUnlock()
			return nil, err
		}
		all = append(all, encounter)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}

	return &ListOutput{Encounters: all}, nil
}

func validateSave(input *SaveInput) error {
	if input == nil || input.Encounter == nil {
		return errors.InvalidArgument("encounter is required")
	}
	if input.Encounter.ID == "" {
		return errors.InvalidArgument("encounter ID is required")
	}
	return nil
}

// decodeEncounter unmarshals a stored record and resolves its schema version
func decodeEncounter(data []byte) (*entities.Encounter, error) {
	var encounter entities.Encounter
	if err := json.Unmarshal(data, &encounter); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored encounter is corrupt")
	}

	version, err := entities.ResolveSchemaVersion(encounter.SchemaVersion)
	if err != nil {
		return nil, err
	}
	encounter.SchemaVersion = version

	return &encounter, nil
}
