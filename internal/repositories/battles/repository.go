// Package battles persists battle sessions between damage requests
package battles

//go:generate mockgen -destination=mock/mock_repository.go -package=battlemock github.com/KirkDiggler/encounter-forge/internal/repositories/battles Repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// DefaultTTL is how long an idle battle session is kept
const DefaultTTL = 12 * time.Hour

// MutateFunc changes a session in place. Returning an error aborts the
// update and leaves the stored session untouched.
type MutateFunc func(session *entities.BattleSession) error

// Repository defines the storage interface for battle sessions
type Repository interface {
	// Create stores a new session; an existing id is ALREADY_EXISTS
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Apply loads a session, runs Mutate on it and stores the result as one
	// atomic step. Concurrent Applies on the same id never lose an update.
	Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error)

	// Delete removes a session
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the request for creating a session
type CreateInput struct {
	Session *entities.BattleSession
}

// CreateOutput defines the response for creating a session
type CreateOutput struct {
	Session *entities.BattleSession
}

// GetInput defines the request for retrieving a session
type GetInput struct {
	BattleID string
}

// GetOutput defines the response for retrieving a session
type GetOutput struct {
	Session *entities.BattleSession
}

// ApplyInput defines the request for mutating a session
type ApplyInput struct {
	BattleID string
	Mutate   MutateFunc
}

// ApplyOutput defines the response for mutating a session
type ApplyOutput struct {
	Session *entities.BattleSession
}

// DeleteInput defines the request for deleting a session
type DeleteInput struct {
	BattleID string
}

// DeleteOutput defines the response for deleting a session
type DeleteOutput struct{}

func validateCreate(input *CreateInput) error {
	if input == nil || input.Session == nil {
		return errors.InvalidArgument("battle session is required")
	}
	if input.Session.ID == "" {
		return errors.InvalidArgument("battle ID is required")
	}
	return nil
}

func validateApply(input *ApplyInput) error {
	vb := errors.NewValidationBuilder()
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	errors.ValidateRequired("battleId", input.BattleID, vb)
	if input.Mutate == nil {
		vb.RequiredField("mutate")
	}
	return vb.Build()
}

func notFound(battleID string) error {
	return errors.NotFound("battle not found").WithMeta("battle_id", battleID)
}

func encodeSession(session *entities.BattleSession) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal battle session")
	}
	return data, nil
}

// decodeSession unmarshals a stored session and resolves its schema version
func decodeSession(data []byte) (*entities.BattleSession, error) {
	var session entities.BattleSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored battle session is corrupt")
	}

	version, err := entities.ResolveSchemaVersion(session.SchemaVersion)
	if err != nil {
		return nil, err
	}
	session.SchemaVersion = version

	return &session, nil
}
