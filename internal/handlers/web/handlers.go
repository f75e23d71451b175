package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	internalbattle "github.com/KirkDiggler/encounter-forge/internal/battle"
	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
)

func (s *Server) handleGenerateEncounter(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.GenerateEncounterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.encounters.GenerateEncounter(r.Context(), &encounter.GenerateEncounterInput{
		EnemyType:         req.EnemyType,
		NumberOfCreatures: req.NumberOfCreatures,
		Difficulty:        entities.Difficulty(req.Difficulty),
		Language:          req.Language,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, v1alpha1.EncounterResponse{Encounter: out.Encounter})
}

func (s *Server) handleRandomEncounter(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.GenerateRandomEncounterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.encounters.GenerateRandomEncounter(r.Context(), &encounter.GenerateRandomEncounterInput{
		Language: req.Language,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, v1alpha1.EncounterResponse{Encounter: out.Encounter})
}

func (s *Server) handleListEncounters(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, errors.InvalidArgumentf("limit %q is not a number", raw))
			return
		}
		limit = n
	}

	out, err := s.encounters.ListEncounters(r.Context(), &encounter.ListEncountersInput{Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.ListEncountersResponse{Encounters: out.Encounters})
}

func (s *Server) handleGetEncounter(w http.ResponseWriter, r *http.Request) {
	out, err := s.encounters.GetEncounter(r.Context(), &encounter.GetEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.EncounterResponse{Encounter: out.Encounter})
}

func (s *Server) handleStatblocks(w http.ResponseWriter, r *http.Request) {
	out, err := s.encounters.GetEncounter(r.Context(), &encounter.GetEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	pdf, err := s.render(out.Encounter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.pdf"`, idgen.Slug(out.Encounter.Title)))
	_, _ = w.Write(pdf)
}

func (s *Server) handleEnemyTypes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	includeSRD := false
	if raw := query.Get("srd"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, errors.InvalidArgumentf("srd %q is not a boolean", raw))
			return
		}
		includeSRD = b
	}

	out, err := s.encounters.ListEnemyTypes(r.Context(), &encounter.ListEnemyTypesInput{
		Language:   query.Get("lang"),
		IncludeSRD: includeSRD,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.ListEnemyTypesResponse{
		Language:    out.Language,
		EnemyTypes:  out.EnemyTypes,
		SRDIncluded: out.SRDIncluded,
	})
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.StartBattleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input := &battle.StartBattleInput{
		EncounterID: req.EncounterID,
		Enemies:     req.Enemies,
		Title:       req.Title,
		Language:    req.Language,
	}
	if req.Snapshot != "" {
		input.Snapshot = []byte(req.Snapshot)
	}

	out, err := s.battles.StartBattle(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, v1alpha1.BattleResponse{
		Battle: out.Battle,
		Empty:  out.Empty,
		Alive:  out.Alive,
	})
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	out, err := s.battles.GetBattle(r.Context(), &battle.GetBattleInput{BattleID: r.PathValue("id")})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.BattleResponse{
		Battle:      out.Battle,
		Empty:       len(out.Battle.Enemies) == 0,
		Alive:       out.Alive,
		AllDefeated: out.AllDefeated,
	})
}

// damageRequest accepts the amount as typed into the form, so both 7 and
// "7" are valid
type damageRequest struct {
	EnemyID string          `json:"enemyId"`
	Amount  json.RawMessage `json:"amount"`
}

func parseAmount(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errors.InvalidArgument("amount is not a string")
		}
		text = s
	}
	return internalbattle.ParseAmount(text)
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	var req damageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.battles.ApplyDamage(r.Context(), &battle.ApplyDamageInput{
		BattleID: r.PathValue("id"),
		EnemyID:  req.EnemyID,
		Amount:   amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.ApplyDamageResponse{
		Result:      out.Result,
		Battle:      out.Battle,
		AllDefeated: out.AllDefeated,
	})
}

func (s *Server) handleFinishBattle(w http.ResponseWriter, r *http.Request) {
	out, err := s.battles.FinishBattle(r.Context(), &battle.FinishBattleInput{BattleID: r.PathValue("id")})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.FinishBattleResponse{
		Battle:   out.Battle,
		Defeated: out.Defeated,
	})
}
