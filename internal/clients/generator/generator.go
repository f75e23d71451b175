// Package generator produces creature stats and abilities for encounters.
//
// Two implementations share the Client interface: an LLM backed one that
// talks to any OpenAI compatible Chat Completions endpoint, and an offline
// one driven by dice and the locale table.
package generator

//go:generate mockgen -destination=mock/mock_client.go -package=generatormock github.com/KirkDiggler/encounter-forge/internal/clients/generator Client

import (
	"context"
	"strings"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
)

// Bounds applied to every generated stat block
const (
	MinArmorClass = 1
	MaxArmorClass = 30
	MinHitPoints  = 1
)

// Every creature carries this many abilities and special actions
const (
	MinAbilities      = 2
	MaxAbilities      = 4
	MinSpecialActions = 1
	MaxSpecialActions = 3
)

// Client generates the pieces of one creature
type Client interface {
	// GenerateStats returns armor class, hit points and speed for one creature
	GenerateStats(ctx context.Context, input *StatsInput) (*StatsOutput, error)

	// AssignAbilities returns a localized name, abilities and special actions
	AssignAbilities(ctx context.Context, input *AbilitiesInput) (*AbilitiesOutput, error)
}

// StatsInput describes the creature to generate stats for
type StatsInput struct {
	EnemyType         string
	NumberOfCreatures int
	Difficulty        entities.Difficulty
	// Index is the creature's position in the batch; generators use it to
	// vary otherwise identical creatures
	Index int
}

// StatsOutput is the core stat block
type StatsOutput struct {
	ArmorClass int `json:"armorClass"`
	HitPoints  int `json:"hitPoints"`
	Speed      int `json:"speed"`
}

// AbilitiesInput describes the creature to describe
type AbilitiesInput struct {
	EnemyType      string
	Difficulty     entities.Difficulty
	TargetLanguage string
}

// AbilitiesOutput is the localized descriptive part of a creature
type AbilitiesOutput struct {
	LocalizedName  string   `json:"localizedName"`
	Abilities      []string `json:"abilities"`
	SpecialActions []string `json:"specialActions"`
}

// ValidateStats rejects stat blocks no table could use
func ValidateStats(out *StatsOutput) error {
	if out == nil {
		return errors.Unavailable("generator returned no stats")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("armorClass", out.ArmorClass, MinArmorClass, MaxArmorClass, vb)
	if out.HitPoints < MinHitPoints {
		vb.Fieldf("hitPoints", "must be at least %d", MinHitPoints)
	}
	if out.Speed < 0 {
		vb.Field("speed", "must not be negative")
	}

	if err := vb.Build(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "generator returned invalid stats")
	}
	return nil
}

// NormalizeAbilities trims the lists, drops blank entries and fills an empty
// name from the enemy type. Lists over the maximum are cut down; lists under
// the minimum fail.
func NormalizeAbilities(out *AbilitiesOutput, enemyType, language string) (*AbilitiesOutput, error) {
	if out == nil {
		return nil, errors.Unavailable("generator returned no abilities")
	}

	normalized := &AbilitiesOutput{
		LocalizedName:  strings.TrimSpace(out.LocalizedName),
		Abilities:      compact(out.Abilities, MaxAbilities),
		SpecialActions: compact(out.SpecialActions, MaxSpecialActions),
	}
	if normalized.LocalizedName == "" {
		normalized.LocalizedName = locale.TitleCase(language, enemyType)
	}

	vb := errors.NewValidationBuilder()
	if len(normalized.Abilities) < MinAbilities {
		vb.Fieldf("abilities", "must list at least %d abilities, got %d", MinAbilities, len(normalized.Abilities))
	}
	if len(normalized.SpecialActions) < MinSpecialActions {
		vb.Fieldf("specialActions", "must list at least %d special action, got %d", MinSpecialActions, len(normalized.SpecialActions))
	}
	if err := vb.Build(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "generator returned invalid abilities")
	}

	return normalized, nil
}

// compact keeps at most limit non-blank entries
func compact(items []string, limit int) []string {
	out := make([]string, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
