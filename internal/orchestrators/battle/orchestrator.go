// Package battle runs persisted battle sessions on top of the hit point
// tracker.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/battles"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/encounters"
)

const tracerName = "github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"

// Service defines the interface for battle operations
type Service interface {
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
	ApplyDamage(ctx context.Context, input *ApplyDamageInput) (*ApplyDamageOutput, error)
	FinishBattle(ctx context.Context, input *FinishBattleInput) (*FinishBattleOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	BattleRepo    battles.Repository
	EncounterRepo encounters.Repository
	Locales       *locale.Table
	IDGenerator   idgen.Generator
	Clock         clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BattleRepo == nil {
		vb.RequiredField("BattleRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.Locales == nil {
		vb.RequiredField("Locales")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	battleRepo    battles.Repository
	encounterRepo encounters.Repository
	locales       *locale.Table
	idGen         idgen.Generator
	clock         clock.Clock
	tracer        trace.Tracer
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		battleRepo:    cfg.BattleRepo,
		encounterRepo: cfg.EncounterRepo,
		locales:       cfg.Locales,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
		tracer:        otel.Tracer(tracerName),
	}, nil
}

func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		input = &StartBattleInput{}
	}

	sources := 0
	if input.EncounterID != "" {
		sources++
	}
	if input.Enemies != nil {
		sources++
	}
	if input.Snapshot != nil {
		sources++
	}
	if sources > 1 {
		return nil, errors.InvalidArgument("only one of encounterId, enemies or snapshot may be set")
	}
	if err := validateRoster(input.Enemies); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "battle.StartBattle")
	defer span.End()

	title := strings.TrimSpace(input.Title)
	requestedLanguage := input.Language
	tracker := battle.NewTracker()

	switch {
	case input.EncounterID != "":
		out, err := o.encounterRepo.Get(ctx, &encounters.GetInput{EncounterID: input.EncounterID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load encounter for battle")
		}
		tracker.Load(out.Encounter.Enemies)
		if title == "" {
			title = out.Encounter.Title
		}
		if requestedLanguage == "" {
			requestedLanguage = out.Encounter.Language
		}
	case input.Snapshot != nil:
		tracker.LoadSnapshot(input.Snapshot)
	default:
		tracker.Load(input.Enemies)
	}

	language, err := o.locales.Match(requestedLanguage)
	if err != nil {
		return nil, errors.NewValidationBuilder().Field("language", errors.GetMessage(err)).Build()
	}
	if title == "" {
		title = o.locales.BattleTitle(language)
	}

	now := o.clock.Now()
	session := &entities.BattleSession{
		ID:            o.idGen.Generate(),
		EncounterID:   input.EncounterID,
		Title:         title,
		Language:      language,
		Enemies:       tracker.Enemies(),
		CreatedAt:     now,
		UpdatedAt:     now,
		SchemaVersion: entities.CurrentSchemaVersion,
	}

	if _, err := o.battleRepo.Create(ctx, &battles.CreateInput{Session: session}); err != nil {
		return nil, errors.Wrap(err, "failed to create battle")
	}

	span.SetAttributes(
		attribute.String("battle.id", session.ID),
		attribute.Int("battle.enemies", len(session.Enemies)))
	slog.Info("battle started",
		"battle_id", session.ID,
		"encounter_id", session.EncounterID,
		"enemies", len(session.Enemies),
		"language", language)

	return &StartBattleOutput{
		Battle: session.Visible(),
		Alive:  tracker.Alive(),
		Empty:  tracker.Empty(),
	}, nil
}

// validateRoster checks a caller supplied roster. Stored encounters and
// snapshots are trusted and never reach here.
func validateRoster(enemies []entities.Enemy) error {
	vb := errors.NewValidationBuilder()
	seen := make(map[string]int, len(enemies))
	for i, enemy := range enemies {
		field := fmt.Sprintf("enemies[%d]", i)
		if enemy.HitPoints < 0 {
			vb.Fieldf(field+".hitPoints", "must not be negative, got %d", enemy.HitPoints)
		}
		if strings.TrimSpace(enemy.ID) == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if first, ok := seen[enemy.ID]; ok {
			vb.Fieldf(field+".id", "duplicates enemies[%d].id %q", first, enemy.ID)
			continue
		}
		seen[enemy.ID] = i
	}
	return vb.Build()
}

func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	out, err := o.battleRepo.Get(ctx, &battles.GetInput{BattleID: input.BattleID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get battle")
	}

	tracker := battle.NewTracker()
	tracker.Restore(out.Session.Enemies)

	return &GetBattleOutput{
		Battle:      out.Session.Visible(),
		Alive:       tracker.Alive(),
		AllDefeated: tracker.AllDefeated(),
	}, nil
}

func (o *orchestrator) ApplyDamage(ctx context.Context, input *ApplyDamageInput) (*ApplyDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("battleId", input.BattleID, vb)
	errors.ValidateRequired("enemyId", input.EnemyID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "battle.ApplyDamage", trace.WithAttributes(
		attribute.String("battle.id", input.BattleID),
		attribute.String("battle.enemy_id", input.EnemyID),
		attribute.Int("battle.damage", input.Amount),
	))
	defer span.End()

	var result *battle.DamageResult
	var allDefeated bool
	out, err := o.battleRepo.Apply(ctx, &battles.ApplyInput{
		BattleID: input.BattleID,
		Mutate: func(session *entities.BattleSession) error {
			tracker := battle.NewTracker()
			tracker.Restore(session.Enemies)

			res, err := tracker.ApplyDamage(input.EnemyID, input.Amount)
			if err != nil {
				return err
			}

			result = res
			allDefeated = tracker.AllDefeated()
			session.Enemies = tracker.Enemies()
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply damage")
	}

	if result.JustDefeated {
		slog.Info("enemy defeated",
			"battle_id", input.BattleID,
			"enemy_id", input.EnemyID,
			"all_defeated", allDefeated)
	}

	return &ApplyDamageOutput{
		Result:      result,
		Battle:      out.Session.Visible(),
		AllDefeated: allDefeated,
	}, nil
}

func (o *orchestrator) FinishBattle(ctx context.Context, input *FinishBattleInput) (*FinishBattleOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	out, err := o.battleRepo.Get(ctx, &battles.GetInput{BattleID: input.BattleID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get battle")
	}

	if _, err := o.battleRepo.Delete(ctx, &battles.DeleteInput{BattleID: input.BattleID}); err != nil {
		return nil, errors.Wrap(err, "failed to finish battle")
	}

	tracker := battle.NewTracker()
	tracker.Restore(out.Session.Enemies)
	defeated := len(out.Session.Enemies) - tracker.Alive()

	slog.Info("battle finished",
		"battle_id", input.BattleID,
		"defeated", defeated,
		"enemies", len(out.Session.Enemies))

	return &FinishBattleOutput{
		Battle:   out.Session.Visible(),
		Defeated: defeated,
	}, nil
}
