// Package mcp exposes encounter generation and battle tracking as Model
// Context Protocol tools.
package mcp

import (
	"context"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
)

// GenerateEncounterInput is the input of generate_encounter
type GenerateEncounterInput struct {
	EnemyType         string `json:"enemy_type" jsonschema:"enemy type, e.g. Goblin or Гоблин"`
	NumberOfCreatures int    `json:"number_of_creatures" jsonschema:"how many creatures, 1 to 20"`
	Difficulty        string `json:"difficulty" jsonschema:"easy, medium, hard or random"`
	Language          string `json:"language,omitempty" jsonschema:"language tag for names and abilities (en or ru)"`
}

// RandomEncounterInput is the input of random_encounter
type RandomEncounterInput struct {
	Language string `json:"language,omitempty" jsonschema:"language tag (en or ru)"`
}

// StartBattleInput is the input of start_battle
type StartBattleInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"id of a generated encounter"`
	Title       string `json:"title,omitempty" jsonschema:"optional battle title"`
	Language    string `json:"language,omitempty" jsonschema:"language tag (en or ru)"`
}

// ApplyDamageInput is the input of apply_damage
type ApplyDamageInput struct {
	BattleID string `json:"battle_id" jsonschema:"battle id from start_battle"`
	EnemyID  string `json:"enemy_id" jsonschema:"enemy id inside the battle"`
	Amount   int    `json:"amount" jsonschema:"positive damage amount"`
}

// GetBattleInput is the input of get_battle
type GetBattleInput struct {
	BattleID string `json:"battle_id" jsonschema:"battle id from start_battle"`
}

// EnemyResult is one creature as tools report it
type EnemyResult struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ArmorClass     int      `json:"armor_class"`
	HitPoints      int      `json:"hit_points"`
	CurrentHP      int      `json:"current_hp"`
	Speed          int      `json:"speed"`
	Abilities      []string `json:"abilities"`
	SpecialActions []string `json:"special_actions"`
	Defeated       bool     `json:"defeated"`
}

// EncounterResult is the output of the generation tools
type EncounterResult struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	EnemyType  string        `json:"enemy_type"`
	Difficulty string        `json:"difficulty"`
	Language   string        `json:"language"`
	Enemies    []EnemyResult `json:"enemies"`
}

// BattleResult is the output of start_battle and get_battle
type BattleResult struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Enemies     []EnemyResult `json:"enemies"`
	Alive       int           `json:"alive"`
	AllDefeated bool          `json:"all_defeated"`
}

// DamageResult is the output of apply_damage
type DamageResult struct {
	EnemyID      string       `json:"enemy_id"`
	PreviousHP   int          `json:"previous_hp"`
	CurrentHP    int          `json:"current_hp"`
	Applied      bool         `json:"applied"`
	Defeated     bool         `json:"defeated"`
	JustDefeated bool         `json:"just_defeated"`
	Battle       BattleResult `json:"battle"`
}

func generateEncounterTool() *gomcp.Tool {
	return &gomcp.Tool{
		Name:        "generate_encounter",
		Description: "Generates a group of D&D 5e creatures of one type with stats, abilities and special actions",
	}
}

func randomEncounterTool() *gomcp.Tool {
	return &gomcp.Tool{
		Name:        "random_encounter",
		Description: "Generates a single creature of a random type and difficulty",
	}
}

func startBattleTool() *gomcp.Tool {
	return &gomcp.Tool{
		Name:        "start_battle",
		Description: "Starts hit point tracking for a generated encounter",
	}
}

func applyDamageTool() *gomcp.Tool {
	return &gomcp.Tool{
		Name:        "apply_damage",
		Description: "Subtracts damage from one enemy in a battle; hit points never drop below zero",
	}
}

func getBattleTool() *gomcp.Tool {
	return &gomcp.Tool{
		Name:        "get_battle",
		Description: "Shows the current hit points of every enemy in a battle",
	}
}

func generateEncounterHandler(svc encounter.Service) gomcp.ToolHandlerFor[GenerateEncounterInput, EncounterResult] {
	return func(ctx context.Context, _ *gomcp.CallToolRequest, input GenerateEncounterInput) (*gomcp.CallToolResult, EncounterResult, error) {
		out, err := svc.GenerateEncounter(ctx, &encounter.GenerateEncounterInput{
			EnemyType:         input.EnemyType,
			NumberOfCreatures: input.NumberOfCreatures,
			Difficulty:        entities.Difficulty(input.Difficulty),
			Language:          input.Language,
		})
		if err != nil {
			return nil, EncounterResult{}, err
		}
		return nil, encounterResult(out.Encounter), nil
	}
}

func randomEncounterHandler(svc encounter.Service) gomcp.ToolHandlerFor[RandomEncounterInput, EncounterResult] {
	return func(ctx context.Context, _ *gomcp.CallToolRequest, input RandomEncounterInput) (*gomcp.CallToolResult, EncounterResult, error) {
		out, err := svc.GenerateRandomEncounter(ctx, &encounter.GenerateRandomEncounterInput{
			Language: input.Language,
		})
		if err != nil {
			return nil, EncounterResult{}, err
		}
		return nil, encounterResult(out.Encounter), nil
	}
}

func startBattleHandler(svc battle.Service) gomcp.ToolHandlerFor[StartBattleInput, BattleResult] {
	return func(ctx context.Context, _ *gomcp.CallToolRequest, input StartBattleInput) (*gomcp.CallToolResult, BattleResult, error) {
		out, err := svc.StartBattle(ctx, &battle.StartBattleInput{
			EncounterID: input.EncounterID,
			Title:       input.Title,
			Language:    input.Language,
		})
		if err != nil {
			return nil, BattleResult{}, err
		}
		return nil, battleResult(out.Battle), nil
	}
}

func applyDamageHandler(svc battle.Service) gomcp.ToolHandlerFor[ApplyDamageInput, DamageResult] {
	return func(ctx context.Context, _ *gomcp.CallToolRequest, input ApplyDamageInput) (*gomcp.CallToolResult, DamageResult, error) {
		out, err := svc.ApplyDamage(ctx, &battle.ApplyDamageInput{
			BattleID: input.BattleID,
			EnemyID:  input.EnemyID,
			Amount:   input.Amount,
		})
		if err != nil {
			return nil, DamageResult{}, err
		}
		return nil, DamageResult{
			EnemyID:      out.Result.EnemyID,
			PreviousHP:   out.Result.PreviousHP,
			CurrentHP:    out.Result.CurrentHP,
			Applied:      out.Result.Applied,
			Defeated:     out.Result.Defeated,
			JustDefeated: out.Result.JustDefeated,
			Battle:       battleResult(out.Battle),
		}, nil
	}
}

func getBattleHandler(svc battle.Service) gomcp.ToolHandlerFor[GetBattleInput, BattleResult] {
	return func(ctx context.Context, _ *gomcp.CallToolRequest, input GetBattleInput) (*gomcp.CallToolResult, BattleResult, error) {
		out, err := svc.GetBattle(ctx, &battle.GetBattleInput{BattleID: input.BattleID})
		if err != nil {
			return nil, BattleResult{}, err
		}
		return nil, battleResult(out.Battle), nil
	}
}

func encounterResult(enc *entities.Encounter) EncounterResult {
	out := EncounterResult{
		ID:         enc.ID,
		Title:      enc.Title,
		EnemyType:  enc.EnemyType,
		Difficulty: enc.Difficulty.String(),
		Language:   enc.Language,
		Enemies:    make([]EnemyResult, 0, len(enc.Enemies)),
	}
	for _, e := range enc.Enemies {
		out.Enemies = append(out.Enemies, enemyResult(e, e.HitPoints))
	}
	return out
}

func battleResult(session *entities.BattleSession) BattleResult {
	out := BattleResult{
		ID:      session.ID,
		Title:   session.Title,
		Enemies: make([]EnemyResult, 0, len(session.Enemies)),
	}
	for i := range session.Enemies {
		e := &session.Enemies[i]
		out.Enemies = append(out.Enemies, enemyResult(e.Enemy, e.CurrentHP))
		if !e.Defeated() {
			out.Alive++
		}
	}
	out.AllDefeated = session.AllDefeated()
	return out
}

func enemyResult(e entities.Enemy, currentHP int) EnemyResult {
	abilities := e.Abilities
	if abilities == nil {
		abilities = []string{}
	}
	actions := e.SpecialActions
	if actions == nil {
		actions = []string{}
	}
	return EnemyResult{
		ID:             e.ID,
		Name:           e.Name,
		ArmorClass:     e.ArmorClass,
		HitPoints:      e.HitPoints,
		CurrentHP:      currentHP,
		Speed:          e.Speed,
		Abilities:      abilities,
		SpecialActions: actions,
		Defeated:       currentHP <= 0,
	}
}
