package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/dragonboatrace-server/internal/session"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	race     *RaceHandler
	gameplay *GameplayHandler
	sessions *session.Manager
}

// NewRouter creates a new message router.
func NewRouter(sm *session.Manager) *Router {
	return &Router{
		race:     NewRaceHandler(sm),
		gameplay: NewGameplayHandler(sm),
		sessions: sm,
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Tournament messages
	case ws.TypeStartTournament:
		r.race.HandleStartTournament(cm.Client, msg)
	case ws.TypeStartRound:
		r.race.HandleStartRound(cm.Client, msg)

	// Race messages
	case ws.TypePlayerInput:
		r.gameplay.HandlePlayerInput(cm.Client, msg)
	case ws.TypePause:
		r.gameplay.HandlePause(cm.Client, msg)

	// Save messages
	case ws.TypeSaveRace:
		r.race.HandleSaveRace(cm.Client, msg)
	case ws.TypeLoadRace:
		r.race.HandleLoadRace(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect tears down the client's session.
func (r *Router) HandleDisconnect(client *ws.Client) {
	if s := r.sessions.FindByClient(client.ID); s != nil {
		r.sessions.RemoveSession(s.Code)
	}
}
