package testutils

import (
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/testutils/builders"
)

// TestEncounterID is the id used by the fixture encounters
const TestEncounterID = "enc_1"

// GoblinRoster is two unhurt goblins with 7 and 5 hit points
func GoblinRoster() []entities.Enemy {
	return []entities.Enemy{
		{ID: "goblin-1", Name: "Goblin 1", ArmorClass: 15, HitPoints: 7, Speed: 30,
			Abilities: []string{"Nimble Escape"}, SpecialActions: []string{"Scimitar"}},
		{ID: "goblin-2", Name: "Goblin 2", ArmorClass: 15, HitPoints: 5, Speed: 30,
			Abilities: []string{"Nimble Escape"}, SpecialActions: []string{"Shortbow"}},
	}
}

// DireWolfPack is a stored English encounter of two dire wolves
func DireWolfPack() *entities.Encounter {
	return builders.NewEncounterBuilder().
		WithID(TestEncounterID).
		WithTitle("Dire Wolf ×2").
		WithEnemyType("Dire Wolf").
		WithCreatures(2).
		Build()
}
