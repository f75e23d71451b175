// Package v1alpha1 serves the encounterforge gRPC API
package v1alpha1

import (
	"context"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	EncounterService encounter.Service
	BattleService    battle.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	return vb.Build()
}

// Handler implements EncounterServiceServer
type Handler struct {
	encounterService encounter.Service
	battleService    battle.Service
}

var _ EncounterServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		encounterService: cfg.EncounterService,
		battleService:    cfg.BattleService,
	}, nil
}

// GenerateEncounter forges a batch of creatures
func (h *Handler) GenerateEncounter(
	ctx context.Context,
	req *GenerateEncounterRequest,
) (*EncounterResponse, error) {
	output, err := h.encounterService.GenerateEncounter(ctx, &encounter.GenerateEncounterInput{
		EnemyType:         req.EnemyType,
		NumberOfCreatures: req.NumberOfCreatures,
		Difficulty:        entities.Difficulty(req.Difficulty),
		Language:          req.Language,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &EncounterResponse{Encounter: output.Encounter}, nil
}

// GenerateRandomEncounter forges a single random creature
func (h *Handler) GenerateRandomEncounter(
	ctx context.Context,
	req *GenerateRandomEncounterRequest,
) (*EncounterResponse, error) {
	output, err := h.encounterService.GenerateRandomEncounter(ctx, &encounter.GenerateRandomEncounterInput{
		Language: req.Language,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &EncounterResponse{Encounter: output.Encounter}, nil
}

// GetEncounter loads a stored encounter
func (h *Handler) GetEncounter(
	ctx context.Context,
	req *GetEncounterRequest,
) (*EncounterResponse, error) {
	output, err := h.encounterService.GetEncounter(ctx, &encounter.GetEncounterInput{
		EncounterID: req.EncounterID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &EncounterResponse{Encounter: output.Encounter}, nil
}

// ListEncounters lists stored encounters, newest first
func (h *Handler) ListEncounters(
	ctx context.Context,
	req *ListEncountersRequest,
) (*ListEncountersResponse, error) {
	output, err := h.encounterService.ListEncounters(ctx, &encounter.ListEncountersInput{
		Limit: req.Limit,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListEncountersResponse{Encounters: output.Encounters}, nil
}

// ListEnemyTypes returns enemy type suggestions
func (h *Handler) ListEnemyTypes(
	ctx context.Context,
	req *ListEnemyTypesRequest,
) (*ListEnemyTypesResponse, error) {
	output, err := h.encounterService.ListEnemyTypes(ctx, &encounter.ListEnemyTypesInput{
		Language:   req.Language,
		IncludeSRD: req.IncludeSRD,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListEnemyTypesResponse{
		Language:    output.Language,
		EnemyTypes:  output.EnemyTypes,
		SRDIncluded: output.SRDIncluded,
	}, nil
}

// StartBattle opens a battle session
func (h *Handler) StartBattle(
	ctx context.Context,
	req *StartBattleRequest,
) (*BattleResponse, error) {
	input := &battle.StartBattleInput{
		EncounterID: req.EncounterID,
		Enemies:     req.Enemies,
		Title:       req.Title,
		Language:    req.Language,
	}
	if req.Snapshot != "" {
		input.Snapshot = []byte(req.Snapshot)
	}

	output, err := h.battleService.StartBattle(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &BattleResponse{
		Battle: output.Battle,
		Empty:  output.Empty,
		Alive:  output.Alive,
	}, nil
}

// GetBattle loads a battle session
func (h *Handler) GetBattle(
	ctx context.Context,
	req *GetBattleRequest,
) (*BattleResponse, error) {
	output, err := h.battleService.GetBattle(ctx, &battle.GetBattleInput{BattleID: req.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &BattleResponse{
		Battle:      output.Battle,
		Empty:       len(output.Battle.Enemies) == 0,
		Alive:       output.Alive,
		AllDefeated: output.AllDefeated,
	}, nil
}

// ApplyDamage damages one enemy
func (h *Handler) ApplyDamage(
	ctx context.Context,
	req *ApplyDamageRequest,
) (*ApplyDamageResponse, error) {
	output, err := h.battleService.ApplyDamage(ctx, &battle.ApplyDamageInput{
		BattleID: req.BattleID,
		EnemyID:  req.EnemyID,
		Amount:   req.Amount,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ApplyDamageResponse{
		Result:      output.Result,
		Battle:      output.Battle,
		AllDefeated: output.AllDefeated,
	}, nil
}

// FinishBattle ends a battle session
func (h *Handler) FinishBattle(
	ctx context.Context,
	req *FinishBattleRequest,
) (*FinishBattleResponse, error) {
	output, err := h.battleService.FinishBattle(ctx, &battle.FinishBattleInput{BattleID: req.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &FinishBattleResponse{
		Battle:   output.Battle,
		Defeated: output.Defeated,
	}, nil
}
