package encounter

import "github.com/KirkDiggler/encounter-forge/internal/entities"

// Input limits
const (
	MaxEnemyTypeLength = 50
	MinCreatures       = 1
	MaxCreatures       = 20
)

// GenerateEncounterInput defines the request for generating an encounter
type GenerateEncounterInput struct {
	EnemyType         string
	NumberOfCreatures int
	Difficulty        entities.Difficulty
	// Language is a BCP-47 tag; empty means English
	Language string
}

// GenerateEncounterOutput defines the response for generating an encounter
type GenerateEncounterOutput struct {
	Encounter *entities.Encounter
}

// GenerateRandomEncounterInput defines the request for a one-click encounter
type GenerateRandomEncounterInput struct {
	Language string
}

// GenerateRandomEncounterOutput defines the response for a one-click encounter
type GenerateRandomEncounterOutput struct {
	Encounter *entities.Encounter
}

// GetEncounterInput defines the request for loading an encounter
type GetEncounterInput struct {
	EncounterID string
}

// GetEncounterOutput defines the response for loading an encounter
type GetEncounterOutput struct {
	Encounter *entities.Encounter
}

// ListEncountersInput defines the request for listing past encounters
type ListEncountersInput struct {
	Limit int
}

// ListEncountersOutput defines the response for listing past encounters
type ListEncountersOutput struct {
	Encounters []*entities.Encounter
}

// ListEnemyTypesInput defines the request for enemy type suggestions
type ListEnemyTypesInput struct {
	Language string
	// IncludeSRD adds SRD monster names when the language is English
	IncludeSRD bool
}

// ListEnemyTypesOutput defines the response for enemy type suggestions
type ListEnemyTypesOutput struct {
	Language    string
	EnemyTypes  []string
	SRDIncluded bool
}
