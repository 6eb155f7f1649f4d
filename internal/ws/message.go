package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - Tournament
const (
	TypeStartTournament = "start_tournament"
	TypeTournamentInfo  = "tournament_info"
	TypeStartRound      = "start_round"
	TypeRoundOver       = "round_over"
	TypeGameOver        = "game_over"
)

// Message types - Race
const (
	TypeCountdown   = "countdown"
	TypePlayerInput = "player_input"
	TypeRaceState   = "race_state"
	TypePause       = "pause"
	TypePaused      = "paused"
)

// Message types - Saves
const (
	TypeSaveRace   = "save_race"
	TypeRaceSaved  = "race_saved"
	TypeLoadRace   = "load_race"
	TypeRaceLoaded = "race_loaded"
)

// Message types - System
const (
	TypeError = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
