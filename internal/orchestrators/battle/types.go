package battle

import (
	"github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
)

// StartBattleInput defines the request for starting a battle. The roster
// comes from exactly one of EncounterID, Enemies or Snapshot; none of them
// starts an empty battle.
type StartBattleInput struct {
	EncounterID string
	Enemies     []entities.Enemy
	// Snapshot is a serialized enemy list as the web front end stored it.
	// An unreadable snapshot starts an empty battle.
	Snapshot []byte
	Title    string
	Language string
}

// StartBattleOutput defines the response for starting a battle
type StartBattleOutput struct {
	Battle *entities.BattleSession
	Alive  int
	// Empty is set when the roster has no enemies
	Empty bool
}

// GetBattleInput defines the request for loading a battle
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput defines the response for loading a battle
type GetBattleOutput struct {
	Battle      *entities.BattleSession
	Alive       int
	AllDefeated bool
}

// ApplyDamageInput defines the request for damaging one enemy
type ApplyDamageInput struct {
	BattleID string
	EnemyID  string
	Amount   int
}

// ApplyDamageOutput defines the response for damaging one enemy
type ApplyDamageOutput struct {
	Result      *battle.DamageResult
	Battle      *entities.BattleSession
	AllDefeated bool
}

// FinishBattleInput defines the request for ending a battle
type FinishBattleInput struct {
	BattleID string
}

// FinishBattleOutput defines the response for ending a battle
type FinishBattleOutput struct {
	// Battle is the final state before the session was removed
	Battle   *entities.BattleSession
	Defeated int
}
