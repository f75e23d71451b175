package encounters

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/encounters/migrations"
	"github.com/KirkDiggler/encounter-forge/internal/storage/sqlitemigrate"
)

// SQLiteRepository keeps encounters in a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// OpenSQLite opens (creating if needed) the archive at path and applies
// pending migrations
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite database")
	}

	if err := sqlitemigrate.Apply(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate encounter archive")
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save stores an encounter
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	e := input.Encounter
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal encounter")
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO encounters (id, title, enemy_type, difficulty, language, enemy_count, schema_version, created_at, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`,
		e.ID, e.Title, e.EnemyType, string(e.Difficulty), e.Language, len(e.Enemies),
		e.SchemaVersion, e.CreatedAt.UnixMilli(), string(payload),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert encounter")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read insert result")
	}
	if rows == 0 {
		return nil, errors.AlreadyExists("encounter already exists").WithMeta("encounter_id", e.ID)
	}

	return &SaveOutput{Encounter: e}, nil
}

// Get retrieves an encounter by ID
func (r *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM encounters WHERE id = ?`, input.EncounterID).Scan(&payload)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("encounter not found").WithMeta("encounter_id", input.EncounterID)
		}
		return nil, errors.Wrap(err, "failed to query encounter")
	}

	encounter, err := decodeEncounter([]byte(payload))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

// List returns the most recent encounters first
func (r *SQLiteRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = clampLimit(input.Limit)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM encounters ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list encounters")
	}
	defer func() { _ = rows.Close() }()

	out := make([]*entities.Encounter, 0, limit)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan encounter")
		}
		encounter, err := decodeEncounter([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, encounter)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate encounters")
	}

	return &ListOutput{Encounters: out}, nil
}
