// Package battle tracks hit points of a roster of enemies during a fight.
//
// The Tracker does no I/O and is not safe for concurrent use; the battle
// orchestrator serializes access through its repository.
package battle

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// DamageResult describes the outcome of one ApplyDamage call
type DamageResult struct {
	EnemyID    string `json:"enemyId"`
	PreviousHP int    `json:"previousHp"`
	CurrentHP  int    `json:"currentHp"`
	// Applied is false when the target was already defeated
	Applied      bool `json:"applied"`
	Defeated     bool `json:"defeated"`
	JustDefeated bool `json:"justDefeated"`
}

// Tracker holds the current roster
type Tracker struct {
	enemies []entities.BattleEnemy
	index   map[string]int
}

// NewTracker returns an empty tracker
func NewTracker() *Tracker {
	return &Tracker{index: make(map[string]int)}
}

// Load replaces the roster with fresh enemies at full hit points
func (t *Tracker) Load(enemies []entities.Enemy) {
	roster := make([]entities.BattleEnemy, 0, len(enemies))
	for _, e := range enemies {
		roster = append(roster, entities.BattleEnemy{
			Enemy:     e.Clone(),
			CurrentHP: max(0, e.HitPoints),
		})
	}
	t.set(roster)
}

// Restore replaces the roster with enemies that already carry current hit
// points, e.g. a persisted session
func (t *Tracker) Restore(enemies []entities.BattleEnemy) {
	roster := make([]entities.BattleEnemy, 0, len(enemies))
	for _, e := range enemies {
		roster = append(roster, entities.BattleEnemy{
			Enemy:     e.Clone(),
			CurrentHP: max(0, e.CurrentHP),
		})
	}
	t.set(roster)
}

// LoadSnapshot decodes a serialized enemy list and loads it. A missing or
// malformed snapshot yields an empty roster rather than an error. It returns
// the number of enemies loaded.
func (t *Tracker) LoadSnapshot(raw []byte) int {
	enemies, err := DecodeSnapshot(raw)
	if err != nil {
		slog.Warn("discarding unreadable battle snapshot",
			"error", err,
			"snapshot_bytes", len(raw))
	}
	t.Load(enemies)
	return len(enemies)
}

// DecodeSnapshot parses the JSON enemy list the web front end stores.
// Empty input decodes to an empty list without error.
func DecodeSnapshot(raw []byte) ([]entities.Enemy, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var enemies []entities.Enemy
	if err := json.Unmarshal(raw, &enemies); err != nil {
		return nil, errors.Wrap(err, "snapshot is not an enemy list")
	}
	return enemies, nil
}

func (t *Tracker) set(roster []entities.BattleEnemy) {
	t.enemies = roster
	t.index = make(map[string]int, len(roster))
	for i, e := range roster {
		// first occurrence wins if a snapshot repeats an id
		if _, seen := t.index[e.ID]; !seen {
			t.index[e.ID] = i
		}
	}
}

// ApplyDamage subtracts amount from one enemy, flooring at zero.
// Order of checks: unknown id, already defeated (no-op), non-positive amount.
func (t *Tracker) ApplyDamage(enemyID string, amount int) (*DamageResult, error) {
	i, ok := t.index[enemyID]
	if !ok {
		return nil, errors.NotFound("enemy not found in battle").WithMeta("enemy_id", enemyID)
	}

	target := &t.enemies[i]
	result := &DamageResult{
		EnemyID:    enemyID,
		PreviousHP: target.CurrentHP,
		CurrentHP:  target.CurrentHP,
	}

	if target.Defeated() {
		result.Defeated = true
		return result, nil
	}

	if amount <= 0 {
		return nil, errors.InvalidArgumentf("damage must be a positive number, got %d", amount).
			WithMeta("enemy_id", enemyID)
	}

	target.CurrentHP = max(0, target.CurrentHP-amount)

	result.CurrentHP = target.CurrentHP
	result.Applied = true
	result.Defeated = target.Defeated()
	result.JustDefeated = result.Defeated
	return result, nil
}

// ParseAmount reads a whole number without judging its sign. Transports use
// it so ApplyDamage sees zero and negative amounts after its defeated check.
func ParseAmount(input string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.InvalidArgumentf("damage %q is not a number", input)
	}
	return amount, nil
}

// ParseDamage parses a typed damage amount. Anything that is not a positive
// whole number is rejected.
func ParseDamage(input string) (int, error) {
	amount, err := ParseAmount(input)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, errors.InvalidArgumentf("damage must be a positive number, got %d", amount)
	}
	return amount, nil
}

// Enemies returns a copy of the roster in load order
func (t *Tracker) Enemies() []entities.BattleEnemy {
	out := make([]entities.BattleEnemy, 0, len(t.enemies))
	for _, e := range t.enemies {
		out = append(out, entities.BattleEnemy{Enemy: e.Clone(), CurrentHP: e.CurrentHP})
	}
	return out
}

// Alive counts enemies above zero hit points
func (t *Tracker) Alive() int {
	n := 0
	for i := range t.enemies {
		if !t.enemies[i].Defeated() {
			n++
		}
	}
	return n
}

// Empty reports whether the roster has no enemies
func (t *Tracker) Empty() bool {
	return len(t.enemies) == 0
}

// AllDefeated reports whether a non-empty roster is entirely at zero
func (t *Tracker) AllDefeated() bool {
	return !t.Empty() && t.Alive() == 0
}
