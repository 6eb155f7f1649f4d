package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a save slot or record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultResultLimit caps ListResults when the caller passes no limit.
const DefaultResultLimit = 20

// SaveRecord is one saved race. Data holds the race exactly as it was encoded.
type SaveRecord struct {
	Slot       string          `json:"slot"`
	PlayerName string          `json:"player_name"`
	Round      int             `json:"round"`
	Data       json.RawMessage `json:"data,omitempty"`
	SavedAt    time.Time       `json:"saved_at"`
}

// ResultRecord is one finished (or wrecked) round of a tournament.
type ResultRecord struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournament_id"`
	Round        int       `json:"round"`
	Outcome      string    `json:"outcome"`
	PlayerName   string    `json:"player_name"`
	PlayerTime   float64   `json:"player_time"`
	Placing      int       `json:"placing"`
	Report       string    `json:"report"`
	CreatedAt    time.Time `json:"created_at"`
}

// RaceStore defines persistent storage for race saves and round results.
type RaceStore interface {
	// PutSave writes a save, replacing whatever the slot held.
	PutSave(ctx context.Context, rec *SaveRecord) error
	// GetSave returns the save in a slot, or ErrNotFound.
	GetSave(ctx context.Context, slot string) (*SaveRecord, error)
	// ListSaves returns every save without its data, ordered by slot.
	ListSaves(ctx context.Context) ([]SaveRecord, error)
	// DeleteSave removes a slot, or returns ErrNotFound.
	DeleteSave(ctx context.Context, slot string) error
	// RecordResult appends a round result.
	RecordResult(ctx context.Context, rec *ResultRecord) error
	// ListResults returns the most recent results first.
	ListResults(ctx context.Context, limit int) ([]ResultRecord, error)
	// Close releases storage resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultResultLimit
	}
	return limit
}
