package entities

import (
	"time"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// CurrentSchemaVersion is the layout version written for persisted records.
// Version 0 means the record predates versioning and is read as version 1.
const CurrentSchemaVersion = 1

// BattleSession is the persisted state of one running battle
type BattleSession struct {
	ID            string        `json:"id"`
	EncounterID   string        `json:"encounterId,omitempty"`
	Title         string        `json:"title"`
	Language      string        `json:"language"`
	Enemies       []BattleEnemy `json:"enemies"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	SchemaVersion int           `json:"schemaVersion"`
}

// Visible returns a copy of the session with defeated enemies stripped
// of abilities and actions
func (s *BattleSession) Visible() *BattleSession {
	out := *s
	out.Enemies = make([]BattleEnemy, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		out.Enemies = append(out.Enemies, e.Visible())
	}
	return &out
}

// AllDefeated reports whether the roster is non-empty and every enemy is down
func (s *BattleSession) AllDefeated() bool {
	if len(s.Enemies) == 0 {
		return false
	}
	for i := range s.Enemies {
		if !s.Enemies[i].Defeated() {
			return false
		}
	}
	return true
}

// ResolveSchemaVersion maps a stored version to the one the record is read
// as. Records written by a newer binary are refused rather than misread.
func ResolveSchemaVersion(stored int) (int, error) {
	switch {
	case stored <= 0:
		return 1, nil
	case stored > CurrentSchemaVersion:
		return 0, errors.FailedPreconditionf(
			"record schema version %d is newer than supported version %d", stored, CurrentSchemaVersion).
			WithMeta("schema_version", stored)
	default:
		return stored, nil
	}
}
