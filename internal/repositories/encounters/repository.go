// Package encounters stores generated encounters so a battle can be started
// from one later and past encounters can be listed.
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountermock github.com/KirkDiggler/encounter-forge/internal/repositories/encounters Repository

import (
	"context"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

// Listing limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Repository defines the storage interface for encounters
type Repository interface {
	// Save stores a new encounter; an existing id is ALREADY_EXISTS
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves an encounter by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns the most recent encounters first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// SaveInput defines the request for saving an encounter
type SaveInput struct {
	Encounter *entities.Encounter
}

// SaveOutput defines the response for saving an encounter
type SaveOutput struct {
	Encounter *entities.Encounter
}

// GetInput defines the request for retrieving an encounter
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving an encounter
type GetOutput struct {
	Encounter *entities.Encounter
}

// ListInput defines the request for listing encounters
type ListInput struct {
	// Limit caps the result; zero means DefaultListLimit
	Limit int
}

// ListOutput defines the response for listing encounters
type ListOutput struct {
	Encounters []*entities.Encounter
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
