package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
	ErrInvalidRaceLength  = errors.New("invalid race length")
	ErrInvalidTuning      = errors.New("invalid tuning value")
)

// Settings is the simulation configuration threaded into every race, lane and
// boat. It replaces process-wide mutable configuration so each race is
// reproducible from its inputs.
type Settings struct {
	PlayerCount          int     `json:"player_count"`
	Difficulty           int     `json:"difficulty"`
	RaceLength           int     `json:"race_length"`
	StaminaSpeedDivision float64 `json:"stamina_speed_division"`
	CollisionPenalty     float64 `json:"collision_penalty"`
	CollisionRecovery    float64 `json:"collision_recovery"`
}

// DefaultSettings returns the settings of a standard eight-boat race.
func DefaultSettings() Settings {
	return Settings{
		PlayerCount:          MaxPlayers,
		Difficulty:           DifficultyNormal,
		RaceLength:           DefaultRaceLength,
		StaminaSpeedDivision: DefaultStaminaSpeedDivision,
		CollisionPenalty:     DefaultCollisionPenalty,
		CollisionRecovery:    DefaultCollisionRecovery,
	}
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	if s.PlayerCount < MinPlayers || s.PlayerCount > MaxPlayers {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPlayerCount, s.PlayerCount, MinPlayers, MaxPlayers)
	}
	if s.Difficulty < DifficultyEasy || s.Difficulty > DifficultyHard {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, s.Difficulty)
	}
	if s.RaceLength <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRaceLength, s.RaceLength)
	}
	if s.StaminaSpeedDivision <= 0 {
		return fmt.Errorf("%w: stamina speed division %v", ErrInvalidTuning, s.StaminaSpeedDivision)
	}
	if s.CollisionRecovery < 0 {
		return fmt.Errorf("%w: collision recovery %v", ErrInvalidTuning, s.CollisionRecovery)
	}
	return nil
}

// LaneWidth returns the width of one lane when the screen is split evenly.
func (s Settings) LaneWidth() int {
	return ScreenWidth / s.PlayerCount
}
