package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"
)

var (
	ErrInvalidRound    = errors.New("invalid round")
	ErrInvalidBoatType = errors.New("invalid boat type")
	ErrRaceNotRunning  = errors.New("race is not running")
)

// RoundResult is what a finished race reports back to the tournament.
type RoundResult struct {
	Round      int        `json:"round"`
	Final      bool       `json:"final"`
	Outcome    Outcome    `json:"outcome"`
	PlayerTime float64    `json:"player_time"`
	Times      []float64  `json:"times"` // by slot: 0 is the player, then CPUs in order
	Names      []string   `json:"names"`
	Standings  []Standing `json:"standings"`
	Report     string     `json:"report"`
}

// Race runs one round: the player's boat, the CPU boats and the finish line.
type Race struct {
	Length     int
	Round      int
	Player     *Boat
	Boats      []*Boat
	FinishLine *FinishLine
	State      RaceState
	Outcome    Outcome

	settings  Settings
	clock     func() time.Time
	startedAt time.Time
	pausedAt  time.Time
	result    *RoundResult
}

// RaceOption customizes a race at construction.
type RaceOption func(*Race)

// WithClock replaces the wall clock used to stamp finish times.
func WithClock(clock func() time.Time) RaceOption {
	return func(r *Race) { r.clock = clock }
}

// NewRace lays out one lane per boat, the player's lane first, and fills the
// remaining lanes with CPU boats of random types other than the player's.
func NewRace(settings Settings, playerType BoatType, playerName string, round int, opts ...RaceOption) (*Race, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if !playerType.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBoatType, int(playerType))
	}
	if round < 1 || round > FinalRound {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRound, round)
	}

	r := newRace(settings, round, opts...)
	width := settings.LaneWidth()
	r.Player = NewPlayerBoat(playerType, NewLane(Vec2{}, width, round, settings), playerName, settings)

	others := make([]BoatType, 0, len(boatStats)-1)
	for _, t := range BoatTypes() {
		if t != playerType {
			others = append(others, t)
		}
	}
	for i := 1; i < settings.PlayerCount; i++ {
		lane := NewLane(Vec2{X: float64(width * i)}, width, round, settings)
		t := others[rand.Intn(len(others))]
		r.Boats = append(r.Boats, NewComputerBoat(t, lane, fmt.Sprintf("COMP%d", i), i+1, settings))
	}
	return r, nil
}

func newRace(settings Settings, round int, opts ...RaceOption) *Race {
	r := &Race{
		Length:     settings.RaceLength,
		Round:      round,
		FinishLine: NewFinishLine(),
		State:      RaceCountdown,
		settings:   settings,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the settings the race was built with.
func (r *Race) Settings() Settings { return r.settings }

// Start ends the countdown and starts the race clock.
func (r *Race) Start() {
	if r.State != RaceCountdown {
		return
	}
	r.State = RaceRunning
	r.startedAt = r.clock()
}

// Pause freezes the race clock and turns Update into a no-op until Resume.
func (r *Race) Pause() {
	if r.State != RaceRunning || !r.pausedAt.IsZero() {
		return
	}
	r.pausedAt = r.clock()
}

// Resume restarts the race clock after Pause.
func (r *Race) Resume() {
	if r.pausedAt.IsZero() {
		return
	}
	r.startedAt = r.startedAt.Add(r.clock().Sub(r.pausedAt))
	r.pausedAt = time.Time{}
}

// Paused reports whether the race clock is frozen.
func (r *Race) Paused() bool { return !r.pausedAt.IsZero() }

// Elapsed returns the race time in seconds rounded to hundredths.
func (r *Race) Elapsed() float64 {
	if r.startedAt.IsZero() {
		return 0
	}
	now := r.clock()
	if !r.pausedAt.IsZero() {
		now = r.pausedAt
	}
	return roundCentis(now.Sub(r.startedAt).Seconds())
}

// SetInput forwards player controls to the player's boat.
func (r *Race) SetInput(in PlayerInput) error {
	if r.State != RaceRunning {
		return ErrRaceNotRunning
	}
	if ps, ok := r.Player.steering.(*PlayerSteering); ok {
		ps.SetInput(in)
	}
	return nil
}

// Update advances the race by one tick. It returns the round result on the
// tick the race ends and nil otherwise.
func (r *Race) Update(dt float64) *RoundResult {
	if r.State != RaceRunning || r.Paused() {
		return nil
	}

	r.Player.UpdateYPosition(RaceView{
		PlayerY:          r.Player.Pos.Y,
		PlayerDistance:   r.Player.DistanceTravelled,
		RaceLength:       float64(r.Length),
		FinishLineHeight: FinishLineHeight,
	})
	r.Player.Update(dt)
	r.FinishLine.Update(r.Player.Pos.Y, r.Player.DistanceTravelled, r.Length)

	if r.Player.Health <= 0 {
		return r.wreck()
	}

	view := RaceView{
		PlayerY:          r.Player.Hitbox.Y,
		PlayerDistance:   r.Player.DistanceTravelled,
		RaceLength:       float64(r.Length),
		FinishLineHeight: FinishLineHeight,
	}
	for _, b := range r.Boats {
		b.UpdateYPosition(view)
		b.Update(dt)
		if b.Crossed(r.Length) && b.Time == 0 {
			b.Time = r.Elapsed()
		}
	}

	if r.Player.Crossed(r.Length) {
		r.Player.Time = r.Elapsed()
		return r.finish()
	}
	return nil
}

// Result returns the round result once the race has ended.
func (r *Race) Result() *RoundResult { return r.result }

// AllBoats returns the player's boat followed by the CPU boats.
func (r *Race) AllBoats() []*Boat {
	return append([]*Boat{r.Player}, r.Boats...)
}

func (r *Race) wreck() *RoundResult {
	r.State = RaceFinished
	r.Outcome = OutcomeWrecked
	r.disposeLanes()
	r.result = &RoundResult{
		Round:   r.Round,
		Final:   r.Round == FinalRound,
		Outcome: OutcomeWrecked,
	}
	return r.result
}

func (r *Race) finish() *RoundResult {
	r.assignDNFTimes()

	boats := r.AllBoats()
	entries := make([]StandingEntry, len(boats))
	times := make([]float64, len(boats))
	names := make([]string, len(boats))
	for i, b := range boats {
		b.Time = roundCentis(b.Time + b.PenaltyTime)
		b.TotalTime = roundCentis(b.TotalTime + b.Time)
		entries[i] = StandingEntry{Slot: i, Name: b.Name, Time: b.Time}
		times[i] = b.Time
		names[i] = b.Name
	}

	final := r.Round == FinalRound
	standings := RankStandings(entries, final)

	r.State = RaceFinished
	r.Outcome = OutcomeFinished
	r.disposeLanes()
	r.result = &RoundResult{
		Round:      r.Round,
		Final:      final,
		Outcome:    OutcomeFinished,
		PlayerTime: r.Player.Time,
		Times:      times,
		Names:      names,
		Standings:  standings,
		Report:     Report(standings, final),
	}
	return r.result
}

// assignDNFTimes gives every CPU boat still on the water a time behind the
// player, furthest-travelled first.
func (r *Race) assignDNFTimes() {
	var unfinished []*Boat
	for _, b := range r.Boats {
		if b.Time == 0 {
			unfinished = append(unfinished, b)
		}
	}
	sort.SliceStable(unfinished, func(i, j int) bool {
		return unfinished[i].DistanceTravelled > unfinished[j].DistanceTravelled
	})
	for i, b := range unfinished {
		b.Time = roundCentis(r.Player.Time + dnfOffset(i))
	}
}

func dnfOffset(i int) float64 {
	switch i {
	case 0:
		return 1
	case 1:
		return 3
	case 2:
		return 5
	default:
		return float64(6 + rand.Intn(24))
	}
}

func (r *Race) disposeLanes() {
	for _, b := range r.AllBoats() {
		b.lane.Dispose()
	}
}
