package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Race data is kept as BYTEA rather than JSONB so a save reloads byte for byte.
const schema = `
CREATE TABLE IF NOT EXISTS race_saves (
    slot TEXT PRIMARY KEY,
    player_name TEXT NOT NULL DEFAULT '',
    round INTEGER NOT NULL,
    data BYTEA NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS round_results (
    id TEXT PRIMARY KEY,
    tournament_id TEXT NOT NULL,
    round INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    player_name TEXT NOT NULL DEFAULT '',
    player_time DOUBLE PRECISION NOT NULL DEFAULT 0,
    placing INTEGER NOT NULL DEFAULT 0,
    report TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_round_results_created_at ON round_results(created_at DESC);
`

// PostgresStore implements RaceStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// PutSave upserts a save slot.
func (s *PostgresStore) PutSave(ctx context.Context, rec *SaveRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO race_saves (slot, player_name, round, data, saved_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slot) DO UPDATE
		 SET player_name = EXCLUDED.player_name, round = EXCLUDED.round,
		     data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`,
		rec.Slot, rec.PlayerName, rec.Round, []byte(rec.Data), rec.SavedAt)
	return err
}

// GetSave returns the save in a slot.
func (s *PostgresStore) GetSave(ctx context.Context, slot string) (*SaveRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT slot, player_name, round, data, saved_at FROM race_saves WHERE slot = $1`, slot)

	var rec SaveRecord
	var data []byte
	err := row.Scan(&rec.Slot, &rec.PlayerName, &rec.Round, &data, &rec.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("save %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rec.Data = data
	return &rec, nil
}

// ListSaves returns save metadata ordered by slot.
func (s *PostgresStore) ListSaves(ctx context.Context) ([]SaveRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot, player_name, round, saved_at FROM race_saves ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saves := []SaveRecord{}
	for rows.Next() {
		var rec SaveRecord
		if err := rows.Scan(&rec.Slot, &rec.PlayerName, &rec.Round, &rec.SavedAt); err != nil {
			return nil, err
		}
		saves = append(saves, rec)
	}
	return saves, rows.Err()
}

// DeleteSave removes a save slot.
func (s *PostgresStore) DeleteSave(ctx context.Context, slot string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM race_saves WHERE slot = $1`, slot)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save %q: %w", slot, ErrNotFound)
	}
	return nil
}

// RecordResult inserts a round result.
func (s *PostgresStore) RecordResult(ctx context.Context, rec *ResultRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO round_results
		 (id, tournament_id, round, outcome, player_name, player_time, placing, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.TournamentID, rec.Round, rec.Outcome, rec.PlayerName,
		rec.PlayerTime, rec.Placing, rec.Report, rec.CreatedAt)
	return err
}

// ListResults returns the newest results first.
func (s *PostgresStore) ListResults(ctx context.Context, limit int) ([]ResultRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tournament_id, round, outcome, player_name, player_time, placing, report, created_at
		 FROM round_results ORDER BY created_at DESC LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []ResultRecord{}
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanResult(row pgx.Row) (*ResultRecord, error) {
	var rec ResultRecord
	err := row.Scan(&rec.ID, &rec.TournamentID, &rec.Round, &rec.Outcome, &rec.PlayerName,
		&rec.PlayerTime, &rec.Placing, &rec.Report, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
