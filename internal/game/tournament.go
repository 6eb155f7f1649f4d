package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrRoundMismatch  = errors.New("round result does not match tournament round")
	ErrTournamentOver = errors.New("tournament is over")
	ErrSlotMismatch   = errors.New("round result slot count does not match tournament")
)

// Tournament accumulates per-boat total times over three regular rounds and
// an optional final.
type Tournament struct {
	ID         string       `json:"id"`
	PlayerName string       `json:"player_name"`
	PlayerType BoatType     `json:"player_type"`
	Settings   Settings     `json:"settings"`
	Round      int          `json:"round"` // next round to race
	TotalTimes []float64    `json:"total_times"`
	Wrecked    bool         `json:"wrecked"`
	LastResult *RoundResult `json:"last_result,omitempty"`
}

func NewTournament(settings Settings, playerType BoatType, playerName string) (*Tournament, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if !playerType.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBoatType, int(playerType))
	}
	return &Tournament{
		ID:         uuid.New().String(),
		PlayerName: playerName,
		PlayerType: playerType,
		Settings:   settings,
		Round:      1,
		TotalTimes: make([]float64, settings.PlayerCount),
	}, nil
}

// NextRace builds the race for the current round. The final is raced by the
// player and the FinalistCount-1 fastest CPUs only.
func (t *Tournament) NextRace(opts ...RaceOption) (*Race, error) {
	if !t.CanRace() {
		return nil, fmt.Errorf("%w: phase %s", ErrTournamentOver, t.Phase())
	}

	slots := t.raceSlots()
	settings := t.Settings
	settings.PlayerCount = len(slots)
	r, err := NewRace(settings, t.PlayerType, t.PlayerName, t.Round, opts...)
	if err != nil {
		return nil, err
	}
	for i, b := range r.AllBoats() {
		b.TotalTime = t.TotalTimes[slots[i]]
		if i > 0 {
			b.Name = fmt.Sprintf("COMP%d", slots[i])
		}
	}
	return r, nil
}

// raceSlots maps race slots to tournament slots for the current round.
// Regular rounds use every slot in order. The final takes the player and
// the CPUs with the lowest totals, ties going to the lower slot.
func (t *Tournament) raceSlots() []int {
	n := len(t.TotalTimes)
	if t.Round != FinalRound || n <= FinalistCount {
		slots := make([]int, n)
		for i := range slots {
			slots[i] = i
		}
		return slots
	}

	cpus := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		cpus = append(cpus, i)
	}
	sort.SliceStable(cpus, func(a, b int) bool {
		return t.TotalTimes[cpus[a]] < t.TotalTimes[cpus[b]]
	})
	return append([]int{0}, cpus[:FinalistCount-1]...)
}

// ResumeTournament rebuilds a tournament around a loaded race. Totals come
// from the boats' carried total times.
func ResumeTournament(r *Race) *Tournament {
	boats := r.AllBoats()
	totals := make([]float64, len(boats))
	for i, b := range boats {
		totals[i] = b.TotalTime
	}
	return &Tournament{
		ID:         uuid.New().String(),
		PlayerName: r.Player.Name,
		PlayerType: r.Player.Type,
		Settings:   r.Settings(),
		Round:      r.Round,
		TotalTimes: totals,
	}
}

// Merge folds a finished round into the totals and moves to the next round.
// A wrecked round ends the tournament without touching the totals.
func (t *Tournament) Merge(result *RoundResult) error {
	if !t.CanRace() {
		return ErrTournamentOver
	}
	if result.Round != t.Round {
		return fmt.Errorf("%w: got %d, want %d", ErrRoundMismatch, result.Round, t.Round)
	}
	if result.Outcome == OutcomeWrecked {
		t.Wrecked = true
		t.LastResult = result
		return nil
	}
	slots := t.raceSlots()
	if len(result.Times) != len(slots) {
		return fmt.Errorf("%w: got %d, want %d", ErrSlotMismatch, len(result.Times), len(slots))
	}
	for i, time := range result.Times {
		t.TotalTimes[slots[i]] = roundCentis(t.TotalTimes[slots[i]] + time)
	}
	t.LastResult = result
	t.Round++
	return nil
}

// PlayerTotal returns the player's accumulated time.
func (t *Tournament) PlayerTotal() float64 {
	if len(t.TotalTimes) == 0 {
		return 0
	}
	return t.TotalTimes[0]
}

// Qualified reports whether the player's total is among the FinalistCount
// lowest totals.
func (t *Tournament) Qualified() bool {
	totals := append([]float64(nil), t.TotalTimes...)
	sort.Float64s(totals)
	if len(totals) <= FinalistCount {
		return true
	}
	return t.PlayerTotal() <= totals[FinalistCount-1]
}

// Phase reports where the tournament stands.
func (t *Tournament) Phase() Phase {
	switch {
	case t.Wrecked:
		return PhaseWrecked
	case t.Round <= RegularRounds:
		return PhaseRegular
	case t.Round == FinalRound && t.Qualified():
		return PhaseFinal
	case t.Round == FinalRound:
		return PhaseEliminated
	default:
		return PhaseComplete
	}
}

// CanRace reports whether another round can be raced.
func (t *Tournament) CanRace() bool {
	p := t.Phase()
	return p == PhaseRegular || p == PhaseFinal
}
