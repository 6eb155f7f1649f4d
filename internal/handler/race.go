package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ugaemi/dragonboatrace-server/internal/game"
	"github.com/ugaemi/dragonboatrace-server/internal/session"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

const (
	storeTimeout      = 5 * time.Second
	defaultPlayerName = "PLAYER"
	maxPlayerName     = 16
)

// RaceHandler handles tournament, round and save messages.
type RaceHandler struct {
	sm *session.Manager
}

// NewRaceHandler creates a new race handler.
func NewRaceHandler(sm *session.Manager) *RaceHandler {
	return &RaceHandler{sm: sm}
}

type startTournamentRequest struct {
	Name       string `json:"name"`
	BoatType   string `json:"boat_type"`            // e.g. "FAST"
	Difficulty *int   `json:"difficulty,omitempty"` // server default when absent
}

type tournamentResponse struct {
	Code       string                 `json:"code"`
	Tournament session.TournamentInfo `json:"tournament"`
}

// HandleStartTournament starts a tournament with the chosen boat.
func (h *RaceHandler) HandleStartTournament(client *ws.Client, msg ws.Message) {
	var req startTournamentRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid tournament request"))
		return
	}
	if req.Name == "" {
		req.Name = defaultPlayerName
	}
	if len(req.Name) > maxPlayerName {
		client.SendMessage(ws.NewErrorMessage("name is too long"))
		return
	}

	boatType, err := game.ParseBoatType(req.BoatType)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid boat type"))
		return
	}

	var opts []session.TournamentOption
	if req.Difficulty != nil {
		opts = append(opts, session.WithDifficulty(*req.Difficulty))
	}

	s, err := h.sm.SessionFor(client)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	info, err := s.StartTournament(req.Name, boatType, opts...)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeTournamentInfo, tournamentResponse{Code: s.Code, Tournament: info})
	client.SendMessage(resp)
}

// HandleStartRound starts the next round's countdown.
func (h *RaceHandler) HandleStartRound(client *ws.Client, _ ws.Message) {
	s := h.sm.FindByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage(session.ErrNoTournament.Error()))
		return
	}
	if err := s.StartRound(); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

type slotRequest struct {
	Slot string `json:"slot"`
}

// HandleSaveRace saves the current race to a slot.
func (h *RaceHandler) HandleSaveRace(client *ws.Client, msg ws.Message) {
	var req slotRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid save request"))
		return
	}

	s := h.sm.FindByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage(session.ErrNoRace.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.Save(ctx, req.Slot); err != nil {
		slog.Warn("save failed", "client", client.ID, "slot", req.Slot, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeRaceSaved, req)
	client.SendMessage(resp)
}

type raceLoadedResponse struct {
	Slot       string                 `json:"slot"`
	Code       string                 `json:"code"`
	Tournament session.TournamentInfo `json:"tournament"`
}

// HandleLoadRace replaces the current race with a saved one.
func (h *RaceHandler) HandleLoadRace(client *ws.Client, msg ws.Message) {
	var req slotRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid load request"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	s, err := h.sm.SessionFor(client)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	info, err := s.Load(ctx, req.Slot)
	if err != nil {
		slog.Warn("load failed", "client", client.ID, "slot", req.Slot, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeRaceLoaded, raceLoadedResponse{Slot: req.Slot, Code: s.Code, Tournament: info})
	client.SendMessage(resp)
}
