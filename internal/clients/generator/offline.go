package generator

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
)

// tier is the dice recipe for one difficulty
type tier struct {
	baseAC  int
	acDie   int
	hpDice  int
	hpDie   int
	hpBonus int
	traits  int
	actions int
}

var tiers = map[entities.Difficulty]tier{
	entities.DifficultyEasy:   {baseAC: 10, acDie: 3, hpDice: 2, hpDie: 6, hpBonus: 2, traits: 2, actions: 1},
	entities.DifficultyMedium: {baseAC: 12, acDie: 3, hpDice: 4, hpDie: 8, hpBonus: 4, traits: 3, actions: 2},
	entities.DifficultyHard:   {baseAC: 14, acDie: 4, hpDice: 8, hpDie: 10, hpBonus: 16, traits: 4, actions: 3},
}

// OfflineConfig configures the dice driven generator
type OfflineConfig struct {
	// Roller for every random choice (optional, defaults to dice.DefaultRoller)
	Roller dice.Roller
	// Table supplies names and ability pools (optional, defaults to the embedded table)
	Table *locale.Table
}

// Validate validates the OfflineConfig and sets defaults if not provided.
func (cfg *OfflineConfig) Validate() error {
	if cfg.Roller == nil {
		cfg.Roller = dice.DefaultRoller
	}
	if cfg.Table == nil {
		table, err := locale.Load()
		if err != nil {
			return err
		}
		cfg.Table = table
	}
	return nil
}

type offlineClient struct {
	roller dice.Roller
	table  *locale.Table
}

// NewOffline creates a generator that needs no network
func NewOffline(cfg *OfflineConfig) (Client, error) {
	if cfg == nil {
		cfg = &OfflineConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &offlineClient{
		roller: cfg.Roller,
		table:  cfg.Table,
	}, nil
}

func (c *offlineClient) GenerateStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.GetCode(err), "generation canceled")
	}

	t, err := c.tierFor(input.Difficulty)
	if err != nil {
		return nil, err
	}

	acRoll, err := c.roller.Roll(t.acDie)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll armor class")
	}

	hpRolls, err := c.roller.RollN(t.hpDice, t.hpDie)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll hit points")
	}
	hp := t.hpBonus
	for _, r := range hpRolls {
		hp += r
	}

	speedRoll, err := c.roller.Roll(3)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll speed")
	}

	out := &StatsOutput{
		ArmorClass: min(MaxArmorClass, t.baseAC+acRoll),
		HitPoints:  max(MinHitPoints, hp),
		Speed:      20 + 5*speedRoll,
	}
	if err := ValidateStats(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *offlineClient) AssignAbilities(ctx context.Context, input *AbilitiesInput) (*AbilitiesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.GetCode(err), "generation canceled")
	}

	t, err := c.tierFor(input.Difficulty)
	if err != nil {
		return nil, err
	}

	name, ok := c.table.Translate(input.EnemyType, input.TargetLanguage)
	if !ok {
		name = locale.TitleCase(input.TargetLanguage, input.EnemyType)
	}

	abilities, err := c.pick(c.table.Abilities(input.TargetLanguage), t.traits)
	if err != nil {
		return nil, err
	}
	actions, err := c.pick(c.table.SpecialActions(input.TargetLanguage), t.actions)
	if err != nil {
		return nil, err
	}

	return NormalizeAbilities(&AbilitiesOutput{
		LocalizedName:  name,
		Abilities:      abilities,
		SpecialActions: actions,
	}, input.EnemyType, input.TargetLanguage)
}

// tierFor resolves random to one of the fixed tiers
func (c *offlineClient) tierFor(d entities.Difficulty) (tier, error) {
	if d == entities.DifficultyRandom {
		roll, err := c.roller.Roll(len(entities.RandomPool))
		if err != nil {
			return tier{}, errors.Wrap(err, "failed to roll difficulty")
		}
		d = entities.RandomPool[roll-1]
	}

	t, ok := tiers[d]
	if !ok {
		return tier{}, errors.InvalidArgumentf("unknown difficulty %q", d)
	}
	return t, nil
}

// pick draws n distinct entries from pool
func (c *offlineClient) pick(pool []string, n int) ([]string, error) {
	n = min(n, len(pool))
	out := make([]string, 0, n)
	for range n {
		roll, err := c.roller.Roll(len(pool))
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll from pool")
		}
		i := roll - 1
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return out, nil
}
