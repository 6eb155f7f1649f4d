package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/dragonboatrace-server/internal/game"
	"github.com/ugaemi/dragonboatrace-server/internal/session"
	"github.com/ugaemi/dragonboatrace-server/internal/store"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

func setupRouter(t *testing.T) (*Router, *session.Manager, *store.MemoryStore, *ws.Client) {
	t.Helper()
	settings := game.DefaultSettings()
	settings.PlayerCount = 4

	st := store.NewMemoryStore()
	sm := session.NewManager(st, session.Options{
		Settings:      settings,
		TickInterval:  time.Millisecond,
		Step:          1.0 / 60,
		CountdownStep: time.Millisecond,
	})
	router := NewRouter(sm)
	client := &ws.Client{
		ID:   "test-client",
		Send: make(chan []byte, 8192),
	}
	t.Cleanup(func() { router.HandleDisconnect(client) })
	return router, sm, st, client
}

func sendMessage(t *testing.T, r *Router, client *ws.Client, msgType string, payload any) {
	t.Helper()
	msg, err := ws.NewMessage(msgType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	r.HandleMessage(&ws.ClientMessage{Client: client, Data: data})
}

// waitForMessage reads the client's messages until one of msgType arrives.
func waitForMessage(t *testing.T, client *ws.Client, msgType string) ws.Message {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == msgType {
				return msg
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", msgType)
		}
	}
}

func errorText(t *testing.T, msg ws.Message) string {
	t.Helper()
	var e ws.ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e.Message
}

func startRace(t *testing.T, r *Router, client *ws.Client) {
	t.Helper()
	sendMessage(t, r, client, ws.TypeStartTournament, startTournamentRequest{Name: "PLAYER", BoatType: "BALANCED"})
	waitForMessage(t, client, ws.TypeTournamentInfo)
	sendMessage(t, r, client, ws.TypeStartRound, nil)
	waitForMessage(t, client, ws.TypeRaceState)
}

func TestHandleMessage_InvalidFormat(t *testing.T) {
	r, _, _, client := setupRouter(t)

	r.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte("{")})

	msg := waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, "invalid message format", errorText(t, msg))
}

func TestHandleMessage_UnknownType(t *testing.T) {
	r, _, _, client := setupRouter(t)

	sendMessage(t, r, client, "fly", nil)

	msg := waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, "unknown message type: fly", errorText(t, msg))
}

func TestHandleStartTournament(t *testing.T) {
	tests := []struct {
		name    string
		req     startTournamentRequest
		wantErr string
	}{
		{"valid", startTournamentRequest{Name: "ANNA", BoatType: "AGILE"}, ""},
		{"default name", startTournamentRequest{BoatType: "STRONG"}, ""},
		{"unknown boat", startTournamentRequest{Name: "ANNA", BoatType: "CANOE"}, "invalid boat type"},
		{"long name", startTournamentRequest{Name: "ABCDEFGHIJKLMNOPQ", BoatType: "FAST"}, "name is too long"},
		{"hard", startTournamentRequest{Name: "ANNA", BoatType: "FAST", Difficulty: intPtr(game.DifficultyHard)}, ""},
		{"bad difficulty", startTournamentRequest{Name: "ANNA", BoatType: "FAST", Difficulty: intPtr(5)}, "invalid difficulty: 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, sm, _, client := setupRouter(t)

			sendMessage(t, r, client, ws.TypeStartTournament, tt.req)

			if tt.wantErr != "" {
				msg := waitForMessage(t, client, ws.TypeError)
				assert.Equal(t, tt.wantErr, errorText(t, msg))
				if s := sm.FindByClient(client.ID); s != nil {
					_, ok := s.Tournament()
					assert.False(t, ok)
				}
				return
			}

			msg := waitForMessage(t, client, ws.TypeTournamentInfo)
			var resp tournamentResponse
			require.NoError(t, json.Unmarshal(msg.Data, &resp))
			assert.NotEmpty(t, resp.Code)
			assert.Equal(t, 1, resp.Tournament.Round)
			assert.Len(t, resp.Tournament.TotalTimes, 4)
			if tt.req.Name == "" {
				assert.Equal(t, defaultPlayerName, resp.Tournament.PlayerName)
			}
			wantDifficulty := game.DifficultyNormal
			if tt.req.Difficulty != nil {
				wantDifficulty = *tt.req.Difficulty
			}
			assert.Equal(t, wantDifficulty, resp.Tournament.Settings.Difficulty)
			assert.NotNil(t, sm.FindByClient(client.ID))
		})
	}
}

func intPtr(v int) *int { return &v }

func TestHandleStartRound_WithoutTournament(t *testing.T) {
	r, _, _, client := setupRouter(t)

	sendMessage(t, r, client, ws.TypeStartRound, nil)

	msg := waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, session.ErrNoTournament.Error(), errorText(t, msg))
}

func TestHandleStartRound_Countdown(t *testing.T) {
	r, _, _, client := setupRouter(t)
	sendMessage(t, r, client, ws.TypeStartTournament, startTournamentRequest{Name: "PLAYER", BoatType: "FAST"})
	waitForMessage(t, client, ws.TypeTournamentInfo)

	sendMessage(t, r, client, ws.TypeStartRound, nil)

	msg := waitForMessage(t, client, ws.TypeCountdown)
	assert.JSONEq(t, `{"round":1,"label":"READY"}`, string(msg.Data))
	waitForMessage(t, client, ws.TypeRaceState)
}

func TestHandlePlayerInput(t *testing.T) {
	r, sm, _, client := setupRouter(t)

	sendMessage(t, r, client, ws.TypePlayerInput, game.PlayerInput{Steer: -1})
	msg := waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, session.ErrNoRace.Error(), errorText(t, msg))

	startRace(t, r, client)
	require.NotNil(t, sm.FindByClient(client.ID))

	r.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte(`{"type":"player_input","data":{"steer":"left"}}`)})
	msg = waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, "invalid input data", errorText(t, msg))

	sendMessage(t, r, client, ws.TypePlayerInput, game.PlayerInput{Steer: 0.5, Accelerate: true})
	sendMessage(t, r, client, ws.TypePause, nil)
	msg = waitForMessage(t, client, ws.TypePaused)
	assert.JSONEq(t, `{"paused":true}`, string(msg.Data))
}

func TestHandlePause_Toggles(t *testing.T) {
	r, _, _, client := setupRouter(t)
	startRace(t, r, client)

	sendMessage(t, r, client, ws.TypePause, nil)
	msg := waitForMessage(t, client, ws.TypePaused)
	assert.JSONEq(t, `{"paused":true}`, string(msg.Data))

	sendMessage(t, r, client, ws.TypePause, nil)
	msg = waitForMessage(t, client, ws.TypePaused)
	assert.JSONEq(t, `{"paused":false}`, string(msg.Data))
}

func TestHandleSaveAndLoadRace(t *testing.T) {
	r, _, st, client := setupRouter(t)
	startRace(t, r, client)
	sendMessage(t, r, client, ws.TypePause, nil)
	waitForMessage(t, client, ws.TypePaused)

	sendMessage(t, r, client, ws.TypeSaveRace, slotRequest{Slot: "quick"})
	msg := waitForMessage(t, client, ws.TypeRaceSaved)
	assert.JSONEq(t, `{"slot":"quick"}`, string(msg.Data))

	saves, err := st.ListSaves(t.Context())
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "quick", saves[0].Slot)

	sendMessage(t, r, client, ws.TypeLoadRace, slotRequest{Slot: "quick"})
	msg = waitForMessage(t, client, ws.TypeRaceLoaded)
	var resp raceLoadedResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.Equal(t, "quick", resp.Slot)
	assert.Equal(t, game.BoatBalanced, resp.Tournament.PlayerType)
	waitForMessage(t, client, ws.TypeCountdown)
}

func TestHandleLoadRace_Missing(t *testing.T) {
	r, _, _, client := setupRouter(t)

	sendMessage(t, r, client, ws.TypeLoadRace, slotRequest{Slot: "nothing"})

	msg := waitForMessage(t, client, ws.TypeError)
	assert.Contains(t, errorText(t, msg), store.ErrNotFound.Error())
}

func TestHandleSaveRace_NoSession(t *testing.T) {
	r, _, _, client := setupRouter(t)

	sendMessage(t, r, client, ws.TypeSaveRace, slotRequest{Slot: "quick"})

	msg := waitForMessage(t, client, ws.TypeError)
	assert.Equal(t, session.ErrNoRace.Error(), errorText(t, msg))
}

func TestHandleDisconnect_RemovesSession(t *testing.T) {
	r, sm, _, client := setupRouter(t)
	startRace(t, r, client)

	r.HandleDisconnect(client)

	assert.Nil(t, sm.FindByClient(client.ID))
	assert.Equal(t, 0, sm.SessionCount())
}
