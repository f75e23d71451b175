// Package entities provides core data structures for encounter-forge.
package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EnemyEntityType is what BattleEnemy reports as its core.Entity type
const EnemyEntityType = "enemy"

// Enemy is one generated creature. The JSON names match the payload the web
// front end has always stored, so old snapshots still decode.
type Enemy struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ArmorClass     int      `json:"armorClass"`
	HitPoints      int      `json:"hitPoints"`
	Speed          int      `json:"speed"`
	Abilities      []string `json:"abilities"`
	SpecialActions []string `json:"specialActions"`
}

// Clone returns a deep copy
func (e Enemy) Clone() Enemy {
	out := e
	out.Abilities = append([]string(nil), e.Abilities...)
	out.SpecialActions = append([]string(nil), e.SpecialActions...)
	return out
}

// BattleEnemy is an Enemy with its current hit points during a battle
type BattleEnemy struct {
	Enemy
	CurrentHP int `json:"currentHp"`
}

var _ core.Entity = (*BattleEnemy)(nil)

// GetID implements core.Entity
func (b *BattleEnemy) GetID() string {
	return b.ID
}

// GetType implements core.Entity
func (b *BattleEnemy) GetType() string {
	return EnemyEntityType
}

// Defeated reports whether the enemy is at zero hit points
func (b *BattleEnemy) Defeated() bool {
	return b.CurrentHP <= 0
}

// Visible returns the enemy as a battle view should show it.
// Defeated enemies keep their record but lose abilities and actions.
func (b BattleEnemy) Visible() BattleEnemy {
	out := BattleEnemy{Enemy: b.Clone(), CurrentHP: b.CurrentHP}
	if out.Defeated() {
		out.Abilities = nil
		out.SpecialActions = nil
	}
	return out
}
