// Package builders provides test data builders for creating test fixtures
package builders

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

// EncounterBuilder provides a fluent interface for building test Encounter instances
type EncounterBuilder struct {
	encounter *entities.Encounter
}

// NewEncounterBuilder creates a new builder with minimal defaults
func NewEncounterBuilder() *EncounterBuilder {
	return &EncounterBuilder{
		encounter: &entities.Encounter{
			ID:            "enc-test-123",
			Title:         "Goblin",
			EnemyType:     "Goblin",
			Difficulty:    entities.DifficultyMedium,
			Language:      "en",
			CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			SchemaVersion: entities.CurrentSchemaVersion,
		},
	}
}

// WithID sets the encounter ID
func (b *EncounterBuilder) WithID(id string) *EncounterBuilder {
	b.encounter.ID = id
	return b
}

// WithTitle sets the title
func (b *EncounterBuilder) WithTitle(title string) *EncounterBuilder {
	b.encounter.Title = title
	return b
}

// WithEnemyType sets the enemy type and the base name
func (b *EncounterBuilder) WithEnemyType(enemyType string) *EncounterBuilder {
	b.encounter.EnemyType = enemyType
	b.encounter.BaseName = enemyType
	return b
}

// WithDifficulty sets the difficulty
func (b *EncounterBuilder) WithDifficulty(difficulty entities.Difficulty) *EncounterBuilder {
	b.encounter.Difficulty = difficulty
	return b
}

// WithLanguage sets the language
func (b *EncounterBuilder) WithLanguage(language string) *EncounterBuilder {
	b.encounter.Language = language
	return b
}

// WithCreatedAt sets the creation time
func (b *EncounterBuilder) WithCreatedAt(at time.Time) *EncounterBuilder {
	b.encounter.CreatedAt = at
	return b
}

// WithEnemy appends one enemy
func (b *EncounterBuilder) WithEnemy(enemy entities.Enemy) *EncounterBuilder {
	b.encounter.Enemies = append(b.encounter.Enemies, enemy)
	return b
}

// WithCreatures appends n numbered enemies of the current enemy type with
// AC 13, HP 11 and speed 30
func (b *EncounterBuilder) WithCreatures(n int) *EncounterBuilder {
	name := b.encounter.EnemyType
	for i := range n {
		b.encounter.Enemies = append(b.encounter.Enemies, entities.Enemy{
			ID:             fmt.Sprintf("%s-%d", b.encounter.ID, i+1),
			Name:           fmt.Sprintf("%s %d", name, i+1),
			ArmorClass:     13,
			HitPoints:      11,
			Speed:          30,
			Abilities:      []string{"Pack Tactics", "Keen Smell"},
			SpecialActions: []string{"Bite", "Howl"},
		})
	}
	return b
}

// Build returns the built encounter
func (b *EncounterBuilder) Build() *entities.Encounter {
	return b.encounter
}
