package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/dragonboatrace-server/internal/game"
	"github.com/ugaemi/dragonboatrace-server/internal/session"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

// GameplayHandler handles in-race messages.
type GameplayHandler struct {
	sm *session.Manager
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(sm *session.Manager) *GameplayHandler {
	return &GameplayHandler{sm: sm}
}

// HandlePlayerInput updates the player's steering and acceleration.
func (h *GameplayHandler) HandlePlayerInput(client *ws.Client, msg ws.Message) {
	var in game.PlayerInput
	if err := json.Unmarshal(msg.Data, &in); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid input data"))
		return
	}

	s := h.sm.FindByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage(session.ErrNoRace.Error()))
		return
	}
	if err := s.SetInput(in); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	slog.Debug("player input", "session", s.Code, "steer", in.Steer, "accelerate", in.Accelerate)
}

type pausedResponse struct {
	Paused bool `json:"paused"`
}

// HandlePause toggles the pause state of the running race.
func (h *GameplayHandler) HandlePause(client *ws.Client, _ ws.Message) {
	s := h.sm.FindByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage(session.ErrNoRace.Error()))
		return
	}

	paused, err := s.TogglePause()
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypePaused, pausedResponse{Paused: paused})
	client.SendMessage(resp)
}
