package entities

import (
	"slices"
	"time"
)

// Difficulty is the challenge tier requested for generated creatures
type Difficulty string

// Difficulties
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyRandom Difficulty = "random"
)

// Difficulties lists every accepted difficulty
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyRandom}

// RandomPool is what random encounters draw from
var RandomPool = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of Difficulties
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// String returns the string form
func (d Difficulty) String() string {
	return string(d)
}

// DifficultyNames returns Difficulties as strings, for validation messages
func DifficultyNames() []string {
	names := make([]string, 0, len(Difficulties))
	for _, d := range Difficulties {
		names = append(names, string(d))
	}
	return names
}

// Encounter is a generated batch of enemies as it is persisted and returned
type Encounter struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	BaseName      string     `json:"baseName,omitempty"`
	EnemyType     string     `json:"enemyType"`
	Difficulty    Difficulty `json:"difficulty"`
	Language      string     `json:"language"`
	Enemies       []Enemy    `json:"enemies"`
	CreatedAt     time.Time  `json:"createdAt"`
	SchemaVersion int        `json:"schemaVersion"`
}
