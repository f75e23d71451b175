package v1alpha1

import (
	"github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

// GenerateEncounterRequest asks for a batch of creatures of one type
type GenerateEncounterRequest struct {
	EnemyType         string `json:"enemyType"`
	NumberOfCreatures int    `json:"numberOfCreatures"`
	Difficulty        string `json:"difficulty"`
	Language          string `json:"language,omitempty"`
}

// GenerateRandomEncounterRequest asks for a one-click encounter
type GenerateRandomEncounterRequest struct {
	Language string `json:"language,omitempty"`
}

// GetEncounterRequest loads a stored encounter
type GetEncounterRequest struct {
	EncounterID string `json:"encounterId"`
}

// EncounterResponse carries one encounter
type EncounterResponse struct {
	Encounter *entities.Encounter `json:"encounter"`
}

// ListEncountersRequest pages through stored encounters, newest first
type ListEncountersRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListEncountersResponse carries stored encounters
type ListEncountersResponse struct {
	Encounters []*entities.Encounter `json:"encounters"`
}

// ListEnemyTypesRequest asks for enemy type suggestions
type ListEnemyTypesRequest struct {
	Language   string `json:"language,omitempty"`
	IncludeSRD bool   `json:"includeSrd,omitempty"`
}

// ListEnemyTypesResponse carries enemy type suggestions
type ListEnemyTypesResponse struct {
	Language    string   `json:"language"`
	EnemyTypes  []string `json:"enemyTypes"`
	SRDIncluded bool     `json:"srdIncluded"`
}

// StartBattleRequest starts a battle from an encounter id, an explicit
// roster or a stored snapshot
type StartBattleRequest struct {
	EncounterID string           `json:"encounterId,omitempty"`
	Enemies     []entities.Enemy `json:"enemies,omitempty"`
	Snapshot    string           `json:"snapshot,omitempty"`
	Title       string           `json:"title,omitempty"`
	Language    string           `json:"language,omitempty"`
}

// GetBattleRequest loads a battle
type GetBattleRequest struct {
	BattleID string `json:"battleId"`
}

// BattleResponse carries the visible state of a battle
type BattleResponse struct {
	Battle      *entities.BattleSession `json:"battle"`
	Empty       bool                    `json:"empty"`
	Alive       int                     `json:"alive"`
	AllDefeated bool                    `json:"allDefeated"`
}

// ApplyDamageRequest damages one enemy
type ApplyDamageRequest struct {
	BattleID string `json:"battleId"`
	EnemyID  string `json:"enemyId"`
	Amount   int    `json:"amount"`
}

// ApplyDamageResponse carries the damage outcome and the new battle state
type ApplyDamageResponse struct {
	Result      *battle.DamageResult    `json:"result"`
	Battle      *entities.BattleSession `json:"battle"`
	AllDefeated bool                    `json:"allDefeated"`
}

// FinishBattleRequest ends a battle
type FinishBattleRequest struct {
	BattleID string `json:"battleId"`
}

// FinishBattleResponse carries the final state of an ended battle
type FinishBattleResponse struct {
	Battle   *entities.BattleSession `json:"battle"`
	Defeated int                     `json:"defeated"`
}
