package game

import (
	"encoding/json"
	"fmt"
)

type RaceState int

const (
	RaceCountdown RaceState = iota
	RaceRunning
	RaceFinished
)

func (s RaceState) String() string {
	switch s {
	case RaceCountdown:
		return "countdown"
	case RaceRunning:
		return "running"
	case RaceFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes RaceState as a string.
func (s RaceState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RaceState) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, RaceCountdown, RaceFinished)
}

// Outcome says how a round ended for the human player.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeFinished
	OutcomeWrecked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeWrecked:
		return "wrecked"
	default:
		return "none"
	}
}

// MarshalJSON serializes Outcome as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, o, OutcomeNone, OutcomeWrecked)
}

// CPUState is what a computer boat chose to do on its last tick.
type CPUState int

const (
	CPUCruising CPUState = iota
	CPUAvoidingObstacle
	CPUSeekingPowerUp
	CPUStaminaWaiting
	CPUCollisionRecovery
)

func (s CPUState) String() string {
	switch s {
	case CPUCruising:
		return "cruising"
	case CPUAvoidingObstacle:
		return "avoiding_obstacle"
	case CPUSeekingPowerUp:
		return "seeking_power_up"
	case CPUStaminaWaiting:
		return "stamina_waiting"
	case CPUCollisionRecovery:
		return "collision_recovery"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes CPUState as a string.
func (s CPUState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Phase is where a tournament stands between rounds.
type Phase int

const (
	PhaseRegular Phase = iota
	PhaseFinal
	PhaseEliminated
	PhaseComplete
	PhaseWrecked
)

func (p Phase) String() string {
	switch p {
	case PhaseRegular:
		return "regular"
	case PhaseFinal:
		return "final"
	case PhaseEliminated:
		return "eliminated"
	case PhaseComplete:
		return "complete"
	case PhaseWrecked:
		return "wrecked"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Phase as a string.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, PhaseRegular, PhaseWrecked)
}

// unmarshalEnum decodes the string form of an int enum whose values run
// from first to last.
func unmarshalEnum[T interface {
	~int
	String() string
}](data []byte, dst *T, first, last T) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for v := first; v <= last; v++ {
		if v.String() == name {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}
