package game

import "math"

// PlayerInput is the human player's control state for the next tick.
type PlayerInput struct {
	Steer      float64 `json:"steer"` // -1 full left, 1 full right
	Accelerate bool    `json:"accelerate"`
}

// Normalize clamps Steer to [-1, 1].
func (in PlayerInput) Normalize() PlayerInput {
	in.Steer = math.Max(-1, math.Min(1, in.Steer))
	return in
}

// PlayerSteering drives the player's boat from the latest input.
type PlayerSteering struct {
	Input PlayerInput
}

// NewPlayerBoat creates the human player's boat in the given lane.
func NewPlayerBoat(t BoatType, lane *Lane, name string, settings Settings) *Boat {
	return newBoat(t, lane, name, settings, &PlayerSteering{})
}

// SetInput replaces the control state used from the next tick on.
func (p *PlayerSteering) SetInput(in PlayerInput) {
	p.Input = in.Normalize()
}

func (p *PlayerSteering) Steer(b *Boat, dt float64) {
	if p.Input.Steer != 0 {
		b.Vel.X = p.Input.Steer * b.Speed()
	}

	b.Vel.Y = b.Speed()
	if p.Input.Accelerate && b.spendStamina(dt) {
		b.Vel.Y += b.Speed() * b.velocityPercentage()
	} else {
		b.regenerateStamina()
	}

	b.CheckPowerUpCollisions()
	b.CheckObstacleCollisions()
}

// Place keeps the player on its base row until the finish line comes into view,
// then lets the boat drift up the screen towards it.
func (p *PlayerSteering) Place(b *Boat, view RaceView) {
	remaining := view.RaceLength - view.FinishLineHeight - b.DistanceTravelled
	approach := float64(ScreenHeight) / 2
	if remaining >= approach {
		b.Pos.Y = BoatBaseY
		return
	}
	b.Pos.Y = BoatBaseY + (approach-math.Max(remaining, 0))/2
}
