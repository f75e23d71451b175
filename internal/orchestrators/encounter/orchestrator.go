// Package encounter turns an enemy type, a creature count and a difficulty
// into a persisted encounter by asking a generator for each creature.
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/encounter-forge/internal/clients/generator"
	"github.com/KirkDiggler/encounter-forge/internal/clients/srd"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/encounters"
)

const tracerName = "github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"

// Service defines the interface for encounter operations
type Service interface {
	// GenerateEncounter builds and stores an encounter from explicit parameters
	GenerateEncounter(ctx context.Context, input *GenerateEncounterInput) (*GenerateEncounterOutput, error)

	// GenerateRandomEncounter picks a type and difficulty and builds one creature
	GenerateRandomEncounter(ctx context.Context, input *GenerateRandomEncounterInput) (*GenerateRandomEncounterOutput, error)

	// GetEncounter loads a stored encounter
	GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error)

	// ListEncounters returns stored encounters, newest first
	ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error)

	// ListEnemyTypes returns enemy type suggestions for a language
	ListEnemyTypes(ctx context.Context, input *ListEnemyTypesInput) (*ListEnemyTypesOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	Generator     generator.Client
	EncounterRepo encounters.Repository
	Locales       *locale.Table
	Roller        dice.Roller
	IDGenerator   idgen.Generator
	Clock         clock.Clock
	// SRD is optional; without it suggestions come from the locale table only
	SRD srd.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.Locales == nil {
		vb.RequiredField("Locales")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
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
	generator generator.Client
	repo      encounters.Repository
	locales   *locale.Table
	roller    dice.Roller
	idGen     idgen.Generator
	clock     clock.Clock
	srd       srd.Client
	tracer    trace.Tracer
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		generator: cfg.Generator,
		repo:      cfg.EncounterRepo,
		locales:   cfg.Locales,
		roller:    cfg.Roller,
		idGen:     cfg.IDGenerator,
		clock:     cfg.Clock,
		srd:       cfg.SRD,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// batch is one validated generation request
type batch struct {
	enemyType  string
	count      int
	difficulty entities.Difficulty
	language   string
}

func (o *orchestrator) GenerateEncounter(ctx context.Context, input *GenerateEncounterInput) (*GenerateEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enemyType := strings.TrimSpace(input.EnemyType)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("enemyType", enemyType, vb)
	errors.ValidateMaxLength("enemyType", enemyType, MaxEnemyTypeLength, vb)
	errors.ValidateRange("numberOfCreatures", input.NumberOfCreatures, MinCreatures, MaxCreatures, vb)
	errors.ValidateEnum("difficulty", input.Difficulty.String(), entities.DifficultyNames(), vb)
	language, langErr := o.locales.Match(input.Language)
	if langErr != nil {
		vb.Field("language", errors.GetMessage(langErr))
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "encounter.GenerateEncounter", trace.WithAttributes(
		attribute.String("encounter.enemy_type", enemyType),
		attribute.Int("encounter.creatures", input.NumberOfCreatures),
		attribute.String("encounter.difficulty", input.Difficulty.String()),
		attribute.String("encounter.language", language),
	))
	defer span.End()

	encounter, err := o.forge(ctx, &batch{
		enemyType:  enemyType,
		count:      input.NumberOfCreatures,
		difficulty: input.Difficulty,
		language:   language,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	encounter.Title = multiTitle(encounter.BaseName, len(encounter.Enemies))
	if err := o.save(ctx, encounter); err != nil {
		return nil, err
	}

	return &GenerateEncounterOutput{Encounter: encounter}, nil
}

func (o *orchestrator) GenerateRandomEncounter(ctx context.Context, input *GenerateRandomEncounterInput) (*GenerateRandomEncounterOutput, error) {
	if input == nil {
		input = &GenerateRandomEncounterInput{}
	}

	language, err := o.locales.Match(input.Language)
	if err != nil {
		return nil, errors.NewValidationBuilder().Field("language", errors.GetMessage(err)).Build()
	}

	enemyType, err := o.pickOne(o.locales.EnemyTypes(language))
	if err != nil {
		return nil, err
	}
	difficulty, err := o.pickDifficulty()
	if err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "encounter.GenerateRandomEncounter", trace.WithAttributes(
		attribute.String("encounter.enemy_type", enemyType),
		attribute.String("encounter.difficulty", difficulty.String()),
		attribute.String("encounter.language", language),
	))
	defer span.End()

	encounter, err := o.forge(ctx, &batch{
		enemyType:  enemyType,
		count:      1,
		difficulty: difficulty,
		language:   language,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	encounter.Title = o.locales.RandomTitle(language, encounter.BaseName)
	if err := o.save(ctx, encounter); err != nil {
		return nil, err
	}

	return &GenerateRandomEncounterOutput{Encounter: encounter}, nil
}

// forge generates every creature of a batch in order. Any failure discards
// the whole batch.
func (o *orchestrator) forge(ctx context.Context, b *batch) (*entities.Encounter, error) {
	start := o.clock.Now()
	enemies := make([]entities.Enemy, 0, b.count)
	baseName := ""

	for i := range b.count {
		enemy, localized, err := o.forgeOne(ctx, b, i)
		if err != nil {
			slog.Warn("encounter generation failed",
				"enemy_type", b.enemyType,
				"difficulty", b.difficulty,
				"creature_index", i,
				"creatures", b.count,
				"error", err)
			return nil, err
		}
		if i == 0 {
			baseName = localized
		}
		enemies = append(enemies, *enemy)
	}

	encounter := &entities.Encounter{
		ID:            o.idGen.Generate(),
		BaseName:      baseName,
		EnemyType:     b.enemyType,
		Difficulty:    b.difficulty,
		Language:      b.language,
		Enemies:       enemies,
		CreatedAt:     o.clock.Now(),
		SchemaVersion: entities.CurrentSchemaVersion,
	}

	slog.Info("encounter generated",
		"encounter_id", encounter.ID,
		"enemy_type", b.enemyType,
		"difficulty", b.difficulty,
		"language", b.language,
		"creatures", len(enemies),
		"duration_ms", o.clock.Now().Sub(start).Milliseconds())

	return encounter, nil
}

// forgeOne asks for stats, then abilities, for creature i
func (o *orchestrator) forgeOne(ctx context.Context, b *batch, i int) (*entities.Enemy, string, error) {
	ctx, span := o.tracer.Start(ctx, "encounter.generate_creature",
		trace.WithAttributes(attribute.Int("encounter.creature_index", i)))
	defer span.End()

	stats, err := o.generator.GenerateStats(ctx, &generator.StatsInput{
		EnemyType:         b.enemyType,
		NumberOfCreatures: b.count,
		Difficulty:        b.difficulty,
		Index:             i,
	})
	if err != nil {
		return nil, "", generationError(err, "failed to generate enemy stats")
	}
	if err := generator.ValidateStats(stats); err != nil {
		return nil, "", err
	}

	described, err := o.generator.AssignAbilities(ctx, &generator.AbilitiesInput{
		EnemyType:      b.enemyType,
		Difficulty:     b.difficulty,
		TargetLanguage: b.language,
	})
	if err != nil {
		return nil, "", generationError(err, "failed to generate enemy abilities")
	}
	described, err = generator.NormalizeAbilities(described, b.enemyType, b.language)
	if err != nil {
		return nil, "", err
	}

	name := described.LocalizedName
	if b.count > 1 {
		name = fmt.Sprintf("%s %d", described.LocalizedName, i+1)
	}

	return &entities.Enemy{
		ID:             idgen.EnemyID(name, b.difficulty.String(), o.clock.Now(), i),
		Name:           name,
		ArmorClass:     stats.ArmorClass,
		HitPoints:      stats.HitPoints,
		Speed:          stats.Speed,
		Abilities:      described.Abilities,
		SpecialActions: described.SpecialActions,
	}, described.LocalizedName, nil
}

// generationError keeps specific codes such as CANCELED and turns anything
// generic into UNAVAILABLE
func generationError(err error, message string) error {
	if errors.GetCode(err) == errors.CodeInternal {
		return errors.WrapWithCode(err, errors.CodeUnavailable, message)
	}
	return errors.Wrap(err, message)
}

func (o *orchestrator) save(ctx context.Context, encounter *entities.Encounter) error {
	if _, err := o.repo.Save(ctx, &encounters.SaveInput{Encounter: encounter}); err != nil {
		return errors.Wrap(err, "failed to save encounter")
	}
	return nil
}

func (o *orchestrator) pickOne(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", errors.Internal("no enemy types configured")
	}
	roll, err := o.roller.Roll(len(candidates))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll enemy type")
	}
	return candidates[roll-1], nil
}

func (o *orchestrator) pickDifficulty() (entities.Difficulty, error) {
	roll, err := o.roller.Roll(len(entities.RandomPool))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll difficulty")
	}
	return entities.RandomPool[roll-1], nil
}

// multiTitle is the base name, with a count suffix for groups
func multiTitle(baseName string, count int) string {
	if count > 1 {
		return fmt.Sprintf("%s ×%d", baseName, count)
	}
	return baseName
}

func (o *orchestrator) GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error) {
	if input == nil || strings.TrimSpace(input.EncounterID) == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	out, err := o.repo.Get(ctx, &encounters.GetInput{EncounterID: input.EncounterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	return &GetEncounterOutput{Encounter: out.Encounter}, nil
}

func (o *orchestrator) ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("limit", limit, 0, encounters.MaxListLimit, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.repo.List(ctx, &encounters.ListInput{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list encounters")
	}

	return &ListEncountersOutput{Encounters: out.Encounters}, nil
}

func (o *orchestrator) ListEnemyTypes(ctx context.Context, input *ListEnemyTypesInput) (*ListEnemyTypesOutput, error) {
	if input == nil {
		input = &ListEnemyTypesInput{}
	}

	language, err := o.locales.Match(input.Language)
	if err != nil {
		return nil, errors.NewValidationBuilder().Field("language", errors.GetMessage(err)).Build()
	}

	out := &ListEnemyTypesOutput{
		Language:   language,
		EnemyTypes: o.locales.EnemyTypes(language),
	}

	// SRD names are English only
	if !input.IncludeSRD || o.srd == nil || language != o.locales.Default {
		return out, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	names, err := o.srd.ListMonsterNames(lookupCtx)
	if err != nil {
		slog.Warn("SRD monster list unavailable, using built-in enemy types",
			"error", err)
		return out, nil
	}

	seen := make(map[string]struct{}, len(out.EnemyTypes)+len(names))
	for _, t := range out.EnemyTypes {
		seen[strings.ToLower(t)] = struct{}{}
	}
	for _, name := range names {
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		out.EnemyTypes = append(out.EnemyTypes, name)
	}
	out.SRDIncluded = true

	return out, nil
}
