package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/dragonboatrace-server/internal/game"
	"github.com/ugaemi/dragonboatrace-server/internal/store"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

var (
	ErrNoTournament    = errors.New("no tournament in progress")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrNoRace          = errors.New("no race in progress")
	ErrInvalidSlot     = errors.New("invalid save slot")
)

const (
	maxSlotLength = 32
	storeTimeout  = 5 * time.Second
)

var countdownLabels = []string{"READY", "STEADY", "GO"}

// Options tunes how sessions run their races.
type Options struct {
	Settings      game.Settings
	TickInterval  time.Duration    // wall time between updates
	Step          float64          // simulated seconds per update; defaults to TickInterval
	CountdownStep time.Duration    // time each countdown label is shown
	Clock         func() time.Time // race clock; defaults to time.Now
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second / game.DefaultTickRate
	}
	if o.Step <= 0 {
		o.Step = o.TickInterval.Seconds()
	}
	if o.CountdownStep <= 0 {
		o.CountdownStep = game.CountdownStep
	}
	return o
}

// TournamentInfo is the client-facing view of a session's tournament.
type TournamentInfo struct {
	ID         string        `json:"id"`
	PlayerName string        `json:"player_name"`
	PlayerType game.BoatType `json:"player_type"`
	Round      int           `json:"round"`
	Phase      game.Phase    `json:"phase"`
	TotalTimes []float64     `json:"total_times"`
	Settings   game.Settings `json:"settings"`
}

// Session hosts one player's tournament: the current race, its tick loop
// and the connection race updates are pushed to.
type Session struct {
	Code string

	client *ws.Client
	store  store.RaceStore
	opts   Options

	tournament *game.Tournament
	race       *game.Race

	// Race loop control
	stopCh chan struct{}

	mu sync.Mutex
}

// NewSession creates an idle session bound to a client.
func NewSession(code string, client *ws.Client, st store.RaceStore, opts Options) *Session {
	return &Session{
		Code:   code,
		client: client,
		store:  st,
		opts:   opts.withDefaults(),
	}
}

// Client returns the connection the session reports to.
func (s *Session) Client() *ws.Client { return s.client }

// TournamentOption adjusts the settings of a single tournament.
type TournamentOption func(*game.Settings)

// WithDifficulty overrides the server's default difficulty.
func WithDifficulty(difficulty int) TournamentOption {
	return func(s *game.Settings) { s.Difficulty = difficulty }
}

// StartTournament begins a fresh tournament, dropping any finished one.
func (s *Session) StartTournament(name string, boatType game.BoatType, opts ...TournamentOption) (TournamentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.racingLocked() {
		return TournamentInfo{}, ErrRoundInProgress
	}
	settings := s.opts.Settings
	for _, opt := range opts {
		opt(&settings)
	}
	t, err := game.NewTournament(settings, boatType, name)
	if err != nil {
		return TournamentInfo{}, err
	}
	s.tournament = t
	s.race = nil

	slog.Info("tournament started", "session", s.Code, "tournament", t.ID,
		"boat", boatType.String(), "difficulty", settings.Difficulty)
	return s.infoLocked(), nil
}

// StartRound builds the next race of the tournament and starts its countdown.
func (s *Session) StartRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tournament == nil {
		return ErrNoTournament
	}
	if s.racingLocked() {
		return ErrRoundInProgress
	}
	race, err := s.tournament.NextRace(s.raceOptions()...)
	if err != nil {
		return err
	}
	s.race = race
	s.beginLocked(race)

	slog.Info("round started", "session", s.Code, "round", race.Round, "boats", len(race.AllBoats()))
	return nil
}

// SetInput updates the player's controls for the running race.
func (s *Session) SetInput(in game.PlayerInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.race == nil {
		return ErrNoRace
	}
	return s.race.SetInput(in)
}

// TogglePause pauses a running race, or resumes a paused one. It reports
// whether the race is now paused.
func (s *Session) TogglePause() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.race == nil {
		return false, ErrNoRace
	}
	if s.race.State != game.RaceRunning {
		return false, game.ErrRaceNotRunning
	}
	if s.race.Paused() {
		s.race.Resume()
	} else {
		s.race.Pause()
	}
	return s.race.Paused(), nil
}

// Save writes the current race to a slot.
func (s *Session) Save(ctx context.Context, slot string) error {
	if err := validateSlot(slot); err != nil {
		return err
	}

	s.mu.Lock()
	if s.race == nil || s.race.State == game.RaceFinished {
		s.mu.Unlock()
		return ErrNoRace
	}
	data, err := json.Marshal(s.race)
	rec := &store.SaveRecord{
		Slot:       slot,
		PlayerName: s.race.Player.Name,
		Round:      s.race.Round,
		Data:       data,
		SavedAt:    time.Now().UTC(),
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.store.PutSave(ctx, rec); err != nil {
		return err
	}
	slog.Info("race saved", "session", s.Code, "slot", slot, "round", rec.Round)
	return nil
}

// Load replaces the current race with the one saved in a slot and restarts
// the countdown. The session is left untouched if the save cannot be read.
func (s *Session) Load(ctx context.Context, slot string) (TournamentInfo, error) {
	if err := validateSlot(slot); err != nil {
		return TournamentInfo{}, err
	}
	rec, err := s.store.GetSave(ctx, slot)
	if err != nil {
		return TournamentInfo{}, err
	}
	race, err := game.UnmarshalRace(rec.Data, s.opts.Settings, s.raceOptions()...)
	if err != nil {
		return TournamentInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.race = race
	s.tournament = game.ResumeTournament(race)
	s.beginLocked(race)

	slog.Info("race loaded", "session", s.Code, "slot", slot, "round", race.Round)
	return s.infoLocked(), nil
}

// Tournament returns the current tournament view, if any.
func (s *Session) Tournament() (TournamentInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tournament == nil {
		return TournamentInfo{}, false
	}
	return s.infoLocked(), true
}

// Stop halts the race loop.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

type countdownMessage struct {
	Round int    `json:"round"`
	Label string `json:"label"`
}

type roundOverMessage struct {
	Result     *game.RoundResult `json:"result"`
	Tournament TournamentInfo    `json:"tournament"`
}

type gameOverMessage struct {
	Reason     string         `json:"reason"`
	Tournament TournamentInfo `json:"tournament"`
}

// run shows the countdown, then ticks the race until it ends or is stopped.
func (s *Session) run(race *game.Race, stopCh chan struct{}) {
	for i, label := range countdownLabels {
		s.send(ws.TypeCountdown, countdownMessage{Round: race.Round, Label: label})
		if i == len(countdownLabels)-1 {
			break
		}
		select {
		case <-stopCh:
			return
		case <-time.After(s.opts.CountdownStep):
		}
	}

	s.mu.Lock()
	select {
	case <-stopCh:
		s.mu.Unlock()
		return
	default:
	}
	race.Start()
	s.mu.Unlock()

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			snapshot, report, ok := s.tick(race)
			if !ok {
				continue
			}
			s.send(ws.TypeRaceState, snapshot)

			if report != nil {
				s.reportRound(report)
				return
			}
		}
	}
}

// roundReport is what a finished race leaves to be sent and recorded.
type roundReport struct {
	result       *game.RoundResult
	info         TournamentInfo
	tournamentID string
	playerName   string
	over         bool
	err          error
}

// tick advances the race one step. The tick that ends the race also merges
// its result into the tournament, so no other call sees a finished race
// whose round is still open. ok is false when the tick was skipped.
func (s *Session) tick(race *game.Race) (game.RaceSnapshot, *roundReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.race != race || race.Paused() {
		return game.RaceSnapshot{}, nil, false
	}
	result := race.Update(s.opts.Step)
	snapshot := race.Snapshot()
	if result == nil {
		return snapshot, nil, true
	}

	t := s.tournament
	report := &roundReport{
		result:       result,
		tournamentID: t.ID,
		playerName:   t.PlayerName,
		err:          t.Merge(result),
	}
	report.info = s.infoLocked()
	report.over = !t.CanRace()
	return snapshot, report, true
}

func (s *Session) reportRound(r *roundReport) {
	if r.err != nil {
		slog.Error("failed to merge round", "session", s.Code, "round", r.result.Round, "error", r.err)
		s.client.SendMessage(ws.NewErrorMessage(r.err.Error()))
		return
	}

	slog.Info("round over", "session", s.Code, "round", r.result.Round,
		"outcome", r.result.Outcome.String(), "time", r.result.PlayerTime)
	s.recordResult(r.tournamentID, r.playerName, r.result)

	s.send(ws.TypeRoundOver, roundOverMessage{Result: r.result, Tournament: r.info})
	if r.over {
		s.send(ws.TypeGameOver, gameOverMessage{Reason: r.info.Phase.String(), Tournament: r.info})
		slog.Info("tournament over", "session", s.Code, "phase", r.info.Phase.String())
	}
}

func (s *Session) recordResult(tournamentID, playerName string, result *game.RoundResult) {
	placing := 0
	for _, st := range result.Standings {
		if st.Slot == 0 {
			placing = st.Rank
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := s.store.RecordResult(ctx, &store.ResultRecord{
		ID:           uuid.New().String(),
		TournamentID: tournamentID,
		Round:        result.Round,
		Outcome:      result.Outcome.String(),
		PlayerName:   playerName,
		PlayerTime:   result.PlayerTime,
		Placing:      placing,
		Report:       result.Report,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to record result", "session", s.Code, "round", result.Round, "error", err)
	}
}

// beginLocked starts the loop for a race. Caller must hold s.mu.
func (s *Session) beginLocked(race *game.Race) {
	s.stopLocked()
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	go s.run(race, stopCh)
}

// stopLocked signals the running loop, if any. Caller must hold s.mu.
func (s *Session) stopLocked() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

// racingLocked reports whether a race is counting down or running. Caller must hold s.mu.
func (s *Session) racingLocked() bool {
	return s.race != nil && s.race.State != game.RaceFinished
}

// infoLocked builds the tournament view. Caller must hold s.mu.
func (s *Session) infoLocked() TournamentInfo {
	t := s.tournament
	return TournamentInfo{
		ID:         t.ID,
		PlayerName: t.PlayerName,
		PlayerType: t.PlayerType,
		Round:      t.Round,
		Phase:      t.Phase(),
		TotalTimes: append([]float64(nil), t.TotalTimes...),
		Settings:   t.Settings,
	}
}

func (s *Session) raceOptions() []game.RaceOption {
	if s.opts.Clock == nil {
		return nil
	}
	return []game.RaceOption{game.WithClock(s.opts.Clock)}
}

func (s *Session) send(msgType string, payload any) {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		slog.Error("failed to build message", "type", msgType, "error", err)
		return
	}
	s.client.SendMessage(msg)
}

func validateSlot(slot string) error {
	if slot == "" || len(slot) > maxSlotLength {
		return ErrInvalidSlot
	}
	return nil
}
